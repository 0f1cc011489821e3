package service

import (
	"context"
	"errors"
	"strings"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrMissingProgramFields = errors.New("missing required fields")
	ErrInvalidProgramStatus = errors.New("invalid program status")
)

// --- Service Interface ---

type ProgramService interface {
	CreateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error)
	GetProgram(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, id primitive.ObjectID, update domain.ProgramUpdate) (*domain.Program, error)

	// DeleteProgram removes a program and returns the deleted record, which
	// the API echoes back to the caller.
	DeleteProgram(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
}

// --- Service Implementation ---

// programService implements the ProgramService interface.
type programService struct {
	programRepo repository.ProgramRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository) ProgramService {
	return &programService{
		programRepo: programRepo,
	}
}

// CreateProgram validates and persists a new health program. Name, type,
// description, goals, startDate, and status are all required. Type is an
// open string; status must be one of the known lifecycle states.
func (s *programService) CreateProgram(ctx context.Context, program *domain.Program) (*domain.Program, error) {
	if strings.TrimSpace(program.Name) == "" ||
		strings.TrimSpace(program.Type) == "" ||
		strings.TrimSpace(program.Description) == "" ||
		strings.TrimSpace(program.Goals) == "" ||
		program.StartDate.IsZero() ||
		program.Status == "" {
		return nil, ErrMissingProgramFields
	}
	if !program.Status.IsValid() {
		return nil, ErrInvalidProgramStatus
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}

	return s.programRepo.GetByID(ctx, programID)
}

// GetProgram retrieves a single program.
func (s *programService) GetProgram(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// ListPrograms retrieves every program, newest first.
func (s *programService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programRepo.GetAll(ctx)
}

// UpdateProgram merges the supplied fields into an existing program.
func (s *programService) UpdateProgram(ctx context.Context, id primitive.ObjectID, update domain.ProgramUpdate) (*domain.Program, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ErrInvalidProgramStatus
	}
	if (update.Name != nil && strings.TrimSpace(*update.Name) == "") ||
		(update.Type != nil && strings.TrimSpace(*update.Type) == "") ||
		(update.Description != nil && strings.TrimSpace(*update.Description) == "") ||
		(update.Goals != nil && strings.TrimSpace(*update.Goals) == "") {
		return nil, ErrMissingProgramFields
	}

	err := s.programRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	return s.programRepo.GetByID(ctx, id)
}

// DeleteProgram removes a program. Existing client enrollments keep their
// (now dangling) id; referential integrity is deliberately not enforced.
func (s *programService) DeleteProgram(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	if err := s.programRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}
