package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/myeventng/somarv26/internal/service"
)

type createPhotoPayload struct {
	URL        string  `json:"url"`
	Caption    string  `json:"caption"`
	GuestName  *string `json:"guestName"`
	GuestEmail *string `json:"guestEmail"`
	GuestPhone *string `json:"guestPhone"`
}

type updatePhotoPayload struct {
	Caption  *string `json:"caption"`
	Approved *bool   `json:"approved"`
}

// CreatePhoto persists one gallery record for an already-uploaded URL and
// fires the notification email without blocking the response.
func (a *API) CreatePhoto(c *gin.Context) {
	var payload createPhotoPayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	item, err := a.galleries.CreateImage(payload.URL, payload.Caption, payload.GuestName, payload.GuestEmail, payload.GuestPhone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageURLMissing), errors.Is(err, service.ErrImageCaptionEmpty):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logger.Log.Error().Err(err).Msg("create gallery image")
			respondError(c, http.StatusInternalServerError, "Failed to upload image")
		}
		return
	}

	// Best effort: the guest's submission already succeeded.
	go func() {
		if err := a.emails.SendUploadNotification(*item); err != nil && !errors.Is(err, service.ErrEmailNotConfigured) {
			logger.Log.Warn().Err(err).Msg("upload notification email failed")
		}
	}()

	respondData(c, http.StatusCreated, item)
}

// ListPhotos returns one page of gallery records, newest first.
func (a *API) ListPhotos(c *gin.Context) {
	skip := parseNonNegativeInt(c.DefaultQuery("skip", "0"), 0)
	take := parseNonNegativeInt(c.DefaultQuery("take", "12"), 12)

	items, err := a.galleries.ListImages(skip, take)
	if err != nil {
		logger.Log.Error().Err(err).Msg("list gallery images")
		respondError(c, http.StatusInternalServerError, "Failed to fetch images")
		return
	}

	respondData(c, http.StatusOK, items)
}

// CountPhotos returns the number of persisted gallery records.
func (a *API) CountPhotos(c *gin.Context) {
	count, err := a.galleries.CountImages()
	if err != nil {
		logger.Log.Error().Err(err).Msg("count gallery images")
		respondError(c, http.StatusInternalServerError, "Failed to count images")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// ListPlaceholders returns the fixed pre-seeded photo set.
func (a *API) ListPlaceholders(c *gin.Context) {
	respondData(c, http.StatusOK, a.placeholders)
}

// UpdatePhoto applies a partial caption/approved update.
func (a *API) UpdatePhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}

	var payload updatePhotoPayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	item, err := a.galleries.UpdateImage(id, payload.Caption, payload.Approved)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "Photo not found")
		case errors.Is(err, service.ErrImageUpdateEmpty), errors.Is(err, service.ErrImageCaptionBlank):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logger.Log.Error().Err(err).Msg("update gallery image")
			respondError(c, http.StatusInternalServerError, "Failed to update image")
		}
		return
	}

	respondData(c, http.StatusOK, item)
}

// DeletePhoto removes a gallery record by path id.
func (a *API) DeletePhoto(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}
	a.deletePhoto(c, id)
}

// DeletePhotoByQuery removes a gallery record addressed by the id query
// param. Kept for compatibility with the original API surface; 400 when
// the param is missing.
func (a *API) DeletePhotoByQuery(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "ID required")
		return
	}
	id := parseNonNegativeInt(raw, 0)
	if id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}
	a.deletePhoto(c, uint(id))
}

func (a *API) deletePhoto(c *gin.Context, id uint) {
	if err := a.galleries.DeleteImage(id); err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "Photo not found")
		default:
			logger.Log.Error().Err(err).Msg("delete gallery image")
			respondError(c, http.StatusInternalServerError, "Failed to delete image")
		}
		return
	}
	respondOK(c)
}
