package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"
	"medidesk/clinic-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrAttachmentInvalid  = errors.New("fileName and contentType are required")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// AttachmentUpload pairs the stored metadata with the presigned PUT URL the
// caller uses to push the file bytes directly to object storage.
type AttachmentUpload struct {
	Attachment *domain.Attachment
	UploadURL  string
}

// AttachmentDownload pairs metadata with a presigned GET URL.
type AttachmentDownload struct {
	Attachment  domain.Attachment
	DownloadURL string
}

// --- Service Interface ---

type AttachmentService interface {
	// RequestUpload registers attachment metadata for a client record and
	// returns a presigned upload URL for the file itself.
	RequestUpload(ctx context.Context, clientID primitive.ObjectID, fileName, contentType string, size int64) (*AttachmentUpload, error)
	ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]AttachmentDownload, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

// attachmentService implements the AttachmentService interface.
type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
	clientRepo     repository.ClientRepository
	fileStorage    storage.FileStorage
}

// NewAttachmentService creates a new instance of attachmentService.
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	clientRepo repository.ClientRepository,
	fileStorage storage.FileStorage,
) AttachmentService {
	return &attachmentService{
		attachmentRepo: attachmentRepo,
		clientRepo:     clientRepo,
		fileStorage:    fileStorage,
	}
}

// RequestUpload validates the target client, builds a collision-free object
// key, persists the metadata, and presigns the upload.
func (s *attachmentService) RequestUpload(ctx context.Context, clientID primitive.ObjectID, fileName, contentType string, size int64) (*AttachmentUpload, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(contentType) == "" {
		return nil, ErrAttachmentInvalid
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// Key layout: clients/<clientId>/attachments/<uuid><original extension>
	ext := path.Ext(fileName)
	objectKey := fmt.Sprintf("clients/%s/attachments/%s%s", clientID.Hex(), uuid.NewString(), ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	attachment := &domain.Attachment{
		ClientID:    clientID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}

	attachmentID, err := s.attachmentRepo.Create(ctx, attachment)
	if err != nil {
		return nil, err
	}
	attachment.ID = attachmentID

	return &AttachmentUpload{Attachment: attachment, UploadURL: uploadURL}, nil
}

// ListForClient returns the client's attachments, each with a fresh
// presigned download URL.
func (s *attachmentService) ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]AttachmentDownload, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	attachments, err := s.attachmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	downloads := make([]AttachmentDownload, 0, len(attachments))
	for _, a := range attachments {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, a.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrDownloadURLError
		}
		downloads = append(downloads, AttachmentDownload{Attachment: a, DownloadURL: url})
	}

	return downloads, nil
}

// Delete removes the stored object first, then the metadata. If the object
// delete fails the metadata stays, so the attachment remains listable and
// the delete can be retried.
func (s *attachmentService) Delete(ctx context.Context, id primitive.ObjectID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	if err := s.fileStorage.DeleteObject(ctx, attachment.S3ObjectKey); err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return nil
}
