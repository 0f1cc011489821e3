package api

import (
	"errors"
	"net/http"
	"time"

	"medidesk/clinic-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttachmentHandler holds the attachment service dependency.
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// --- DTOs ---

type RequestUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"omitempty,min=0"`
}

// AttachmentResponse is the DTO for a stored attachment plus a temporary
// download URL.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

// --- Handler Methods ---

// RequestUpload registers attachment metadata against a client record and
// returns a presigned URL for pushing the file bytes.
func (h *AttachmentHandler) RequestUpload(c *gin.Context) {
	clientID, ok := attachmentClientIDFromPath(c)
	if !ok {
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "fileName and contentType are required"})
		return
	}

	upload, err := h.attachmentService.RequestUpload(c.Request.Context(), clientID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		case errors.Is(err, service.ErrAttachmentInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "fileName and contentType are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create attachment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"attachmentId": upload.Attachment.ID.Hex(),
			"objectKey":    upload.Attachment.S3ObjectKey,
			"uploadUrl":    upload.UploadURL,
		},
	})
}

// ListAttachments returns a client's attachments with download URLs.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	clientID, ok := attachmentClientIDFromPath(c)
	if !ok {
		return
	}

	downloads, err := h.attachmentService.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch attachments"})
		}
		return
	}

	responses := make([]AttachmentResponse, len(downloads))
	for i, d := range downloads {
		responses[i] = AttachmentResponse{
			ID:          d.Attachment.ID.Hex(),
			ClientID:    d.Attachment.ClientID.Hex(),
			FileName:    d.Attachment.FileName,
			ContentType: d.Attachment.ContentType,
			Size:        d.Attachment.Size,
			UploadedAt:  d.Attachment.UploadedAt,
			DownloadURL: d.DownloadURL,
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": responses})
}

// DeleteAttachment removes the stored object and its metadata.
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	idStr := c.Param("id")
	attachmentID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Attachment not found"})
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), attachmentID); err != nil {
		if errors.Is(err, service.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Attachment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete attachment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attachment deleted successfully"})
}

func attachmentClientIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	idStr := c.Param("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Client ID is required"})
		return primitive.NilObjectID, false
	}
	clientID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		return primitive.NilObjectID, false
	}
	return clientID, true
}
