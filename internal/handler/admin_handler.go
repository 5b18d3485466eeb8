package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/db"
	"github.com/myeventng/somarv26/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login verifies admin credentials and opens a session.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	var user db.User
	if err := a.db.Where("email = ?", strings.TrimSpace(payload.Email)).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("email", user.Email)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session")
		return
	}

	respondData(c, http.StatusOK, gin.H{"email": user.Email, "name": user.Name, "role": user.Role})
}

// Logout clears the admin session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	respondOK(c)
}

// SignUp creates an account with an email uniqueness pre-check and an
// optional role assignment.
func (a *API) SignUp(c *gin.Context) {
	var payload signUpPayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	var existing db.User
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		respondError(c, http.StatusConflict, "User already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Error().Err(err).Msg("sign-up lookup")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	role := strings.TrimSpace(payload.Role)
	if role == "" {
		role = "admin"
	}

	user := db.User{Email: email, Name: name, Role: role, Password: string(hashed)}
	if err := a.db.Create(&user).Error; err != nil {
		logger.Log.Error().Err(err).Msg("sign-up create")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondData(c, http.StatusCreated, user)
}

// Stats returns the dashboard numbers: photo count plus RSVP totals.
func (a *API) Stats(c *gin.Context) {
	photoCount, err := a.galleries.CountImages()
	if err != nil {
		logger.Log.Error().Err(err).Msg("dashboard photo count")
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	rsvpStats, err := a.rsvps.Stats()
	if err != nil {
		logger.Log.Error().Err(err).Msg("dashboard rsvp stats")
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"photoCount":  photoCount,
		"rsvpCount":   rsvpStats.Total,
		"attending":   rsvpStats.Attending,
		"totalGuests": rsvpStats.TotalGuests,
	})
}

// AuthRequired guards admin routes; unauthenticated requests get a 401
// JSON envelope rather than a redirect.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
