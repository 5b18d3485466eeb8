package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/config"
	"github.com/myeventng/somarv26/internal/handler"
	"github.com/myeventng/somarv26/internal/service"
	"github.com/myeventng/somarv26/internal/storage"
	"gorm.io/gorm"
)

// Setup wires the gin engine: sessions, CORS, static assets and the API
// surface.
func Setup(cfg config.AppConfig, gdb *gorm.DB, store storage.Storage, emails *service.EmailService) *gin.Engine {
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("somarv26_session", sessionStore))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.SiteBaseURL, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Local uploads and the placeholder assets.
	r.Static("/static", "./web/static")
	r.Static("/assets", "./web/assets")

	api := handler.NewAPI(gdb, store, emails, cfg.MaxBatchFiles, nil)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/api")
	{
		public.POST("/files", api.UploadFiles)
		public.POST("/upload", api.CreatePhoto)
		public.GET("/photos", api.ListPhotos)
		public.GET("/photos/count", api.CountPhotos)
		public.GET("/photos/placeholders", api.ListPlaceholders)
		public.POST("/rsvp", api.CreateRSVP)
		public.GET("/site", api.GetSite)

		public.POST("/auth/sign-up", api.SignUp)
		public.POST("/auth/login", api.Login)
		public.POST("/auth/logout", api.Logout)
	}

	authed := r.Group("/api")
	authed.Use(handler.AuthRequired())
	{
		authed.GET("/rsvp", api.ListRSVPs)
		authed.GET("/rsvp/export", api.ExportRSVPs)
		authed.PATCH("/photos/:id", api.UpdatePhoto)
		authed.DELETE("/photos/:id", api.DeletePhoto)
		authed.DELETE("/photos", api.DeletePhotoByQuery)
		authed.GET("/admin/stats", api.Stats)
		authed.PUT("/admin/site", api.UpdateSite)
	}

	return r
}
