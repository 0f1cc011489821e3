package repository

import (
	"context"

	"medidesk/clinic-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Services translate these into
// their own taxonomy before they reach the API boundary.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("email already exists")
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ClientRepository defines the interface for interacting with client records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetAll(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// EnrollPrograms adds every given program id to the client's
	// enrolledPrograms set in a single atomic update ($addToSet with $each),
	// so concurrent enrollments merge rather than overwrite each other.
	// Returns the resulting set.
	EnrollPrograms(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error)
}

// ProgramRepository defines the interface for interacting with health programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetAll(ctx context.Context) ([]domain.Program, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ProgramUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with clinician accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// AttachmentRepository defines the interface for client record attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Attachment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
