package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

func (s *Server) handleUploadAttachment() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("Missing or invalid file", http.StatusBadRequest))
			return
		}
		attachment, apiErr := s.AttachmentService.Upload(c.Request.Context(), reportID, fileHeader)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		resp := models.NewAttachmentResponse(attachment)
		response.JSON(c, "File uploaded successfully", http.StatusCreated, gin.H{"id": resp.ID, "url": resp.URL}, nil)
	}
}

// handleServeUpload streams a stored file, or redirects when it lives in S3.
func (s *Server) handleServeUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		location, remote, apiErr := s.AttachmentService.Locate(c.Param("name"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		if remote {
			c.Redirect(http.StatusFound, location)
			return
		}
		if info, err := os.Stat(location); err != nil || info.IsDir() {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New("file not found", http.StatusNotFound))
			return
		}
		c.File(location)
	}
}
