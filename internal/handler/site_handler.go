package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/myeventng/somarv26/internal/service"
)

type sitePayload struct {
	BrideName     string              `json:"brideName"`
	GroomName     string              `json:"groomName"`
	WeddingDate   string              `json:"weddingDate"`
	StoryMarkdown string              `json:"storyMarkdown"`
	Events        []service.SiteEvent `json:"events"`
}

// GetSite returns the public site content with the story rendered to
// sanitized HTML.
func (a *API) GetSite(c *gin.Context) {
	content, err := a.site.GetContent()
	if err != nil {
		logger.Log.Error().Err(err).Msg("load site content")
		respondError(c, http.StatusInternalServerError, "Failed to load site content")
		return
	}
	respondData(c, http.StatusOK, content)
}

// UpdateSite saves admin edits to the site content.
func (a *API) UpdateSite(c *gin.Context) {
	var payload sitePayload
	if !bindJSON(c, &payload, "Invalid request body") {
		return
	}

	content, err := a.site.UpdateContent(service.SiteContentInput{
		BrideName:     payload.BrideName,
		GroomName:     payload.GroomName,
		WeddingDate:   payload.WeddingDate,
		StoryMarkdown: payload.StoryMarkdown,
		Events:        payload.Events,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("update site content")
		respondError(c, http.StatusInternalServerError, "Failed to update site content")
		return
	}

	respondData(c, http.StatusOK, content)
}
