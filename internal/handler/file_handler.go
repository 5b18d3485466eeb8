package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/myeventng/somarv26/internal/imaging"
	"github.com/myeventng/somarv26/internal/logger"
	"github.com/myeventng/somarv26/internal/upload"
)

// UploadFiles receives a batch of guest photos, runs them through the
// compression and upload stages, and returns one public URL per file in
// input order.
func (a *API) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "No images found in request")
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		respondError(c, http.StatusBadRequest, "No images found in request")
		return
	}
	if len(headers) > a.maxBatch {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Maximum %d files allowed", a.maxBatch))
		return
	}

	inputs := make([]upload.Input, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Could not read %s", header.Filename))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, imaging.MaxFileSize+1))
		file.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Could not read %s", header.Filename))
			return
		}

		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			respondError(c, http.StatusBadRequest, "Only image files are allowed")
			return
		}

		inputs = append(inputs, upload.Input{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	session := upload.NewSession(a.store, a.maxBatch)
	if err := session.Add(inputs...); err != nil {
		if errors.Is(err, imaging.ErrTooLarge) || errors.Is(err, upload.ErrTooManyFiles) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error().Err(err).Msg("admit upload batch")
		respondError(c, http.StatusInternalServerError, "Failed to process images")
		return
	}
	session.WaitProcessed()

	urls, err := session.Upload(c.Request.Context(), nil)
	if err != nil {
		logger.Log.Error().Err(err).Msg("upload batch to storage")
		respondError(c, http.StatusInternalServerError, "Failed to upload images")
		return
	}

	respondData(c, http.StatusOK, gin.H{"urls": urls})
}
