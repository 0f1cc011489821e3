package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidProgramIDs = errors.New("invalid program IDs provided")
)

// MissingFieldsError reports which required fields were absent or empty.
// The API layer echoes Fields verbatim in the response body.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// --- Service Interface ---

type ClientService interface {
	RegisterClient(ctx context.Context, client *domain.Client) (*domain.Client, error)
	GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) (*domain.Client, error)
	DeleteClient(ctx context.Context, id primitive.ObjectID) error

	// EnrollClient adds every given program id to the client's enrolled set
	// and returns the resulting set. Idempotent: enrolling twice with the
	// same ids yields the same set. Program ids are not checked against the
	// program collection.
	EnrollClient(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error)
}

// --- Service Implementation ---

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{
		clientRepo: clientRepo,
	}
}

// RegisterClient validates and persists a new client record.
func (s *clientService) RegisterClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	var missing []string
	if strings.TrimSpace(client.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(client.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(client.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	// Fetch again so the returned record carries the repository-set fields.
	return s.clientRepo.GetByID(ctx, clientID)
}

// GetClient retrieves a single client record.
func (s *clientService) GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// ListClients retrieves every client record, unfiltered.
func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.GetAll(ctx)
}

// UpdateClient merges the supplied fields into an existing record. The same
// field validators as registration apply to any required field that is
// supplied: updating name, email, or phone to an empty value is rejected.
func (s *clientService) UpdateClient(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) (*domain.Client, error) {
	var missing []string
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		missing = append(missing, "name")
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		missing = append(missing, "email")
	}
	if update.Phone != nil && strings.TrimSpace(*update.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	err := s.clientRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return s.clientRepo.GetByID(ctx, id)
}

// DeleteClient removes a client record.
func (s *clientService) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

// EnrollClient unions the given program ids into the client's enrolled set.
// The union is a single atomic repository update; there is no read-modify-
// write cycle to race against concurrent enrollments.
func (s *clientService) EnrollClient(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error) {
	if len(programIDs) == 0 {
		return nil, ErrInvalidProgramIDs
	}
	for _, pid := range programIDs {
		if strings.TrimSpace(pid) == "" {
			return nil, ErrInvalidProgramIDs
		}
	}

	enrolled, err := s.clientRepo.EnrollPrograms(ctx, id, programIDs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return enrolled, nil
}
