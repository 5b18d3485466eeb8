package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/myeventng/somarv26/internal/service"
)

type rsvpPayload struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Attending  bool    `json:"attending"`
	GuestCount int     `json:"guestCount"`
	Message    *string `json:"message"`
}

// CreateRSVP persists one attendance reply and fires the notification
// email without blocking the response.
func (a *API) CreateRSVP(c *gin.Context) {
	var payload rsvpPayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	record, err := a.rsvps.Create(service.RSVPInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Attending:  payload.Attending,
		GuestCount: payload.GuestCount,
		Message:    payload.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRSVPNameMissing), errors.Is(err, service.ErrRSVPEmailMissing):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logger.Log.Error().Err(err).Msg("create rsvp")
			respondError(c, http.StatusInternalServerError, "Failed to submit RSVP")
		}
		return
	}

	go func() {
		if err := a.emails.SendRSVPNotification(*record); err != nil && !errors.Is(err, service.ErrEmailNotConfigured) {
			logger.Log.Warn().Err(err).Msg("rsvp notification email failed")
		}
	}()

	respondData(c, http.StatusCreated, record)
}

// ListRSVPs returns every reply, newest first. Admin only.
func (a *API) ListRSVPs(c *gin.Context) {
	records, err := a.rsvps.List()
	if err != nil {
		logger.Log.Error().Err(err).Msg("list rsvps")
		respondError(c, http.StatusInternalServerError, "Failed to fetch RSVPs")
		return
	}

	respondData(c, http.StatusOK, records)
}

// ExportRSVPs streams the CSV download. Admin only.
func (a *API) ExportRSVPs(c *gin.Context) {
	records, err := a.rsvps.List()
	if err != nil {
		logger.Log.Error().Err(err).Msg("export rsvps")
		respondError(c, http.StatusInternalServerError, "Failed to export RSVPs")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="rsvps.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(service.ExportCSV(records)))
}
