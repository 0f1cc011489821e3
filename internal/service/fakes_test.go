package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the MongoDB implementations'
// observable behavior: generated ids, timestamps, duplicate-email errors,
// and set semantics for enrollment.

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*domain.Client
	seq     map[primitive.ObjectID]int
	nextSeq int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients: make(map[primitive.ObjectID]*domain.Client),
		seq:     make(map[primitive.ObjectID]int),
	}
}

func (r *fakeClientRepo) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(client.Email))
	for _, existing := range r.clients {
		if existing.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}

	client.ID = primitive.NewObjectID()
	client.Email = email
	now := time.Now().UTC()
	if client.RegistrationDate.IsZero() {
		client.RegistrationDate = now
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.EnrolledPrograms == nil {
		client.EnrolledPrograms = []string{}
	}

	stored := *client
	r.clients[client.ID] = &stored
	r.seq[client.ID] = r.nextSeq
	r.nextSeq++
	return client.ID, nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *fakeClientRepo) GetAll(ctx context.Context) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, *client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return r.seq[clients[i].ID] < r.seq[clients[j].ID]
	})
	return clients, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		client.Name = *update.Name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		for otherID, other := range r.clients {
			if otherID != id && other.Email == email {
				return repository.ErrDuplicateEmail
			}
		}
		client.Email = email
	}
	if update.Phone != nil {
		client.Phone = *update.Phone
	}
	if update.DateOfBirth != nil {
		client.DateOfBirth = update.DateOfBirth
	}
	if update.Address != nil {
		client.Address = update.Address
	}
	if update.MedicalHistory != nil {
		client.MedicalHistory = update.MedicalHistory
	}
	if update.EmergencyContact != nil {
		client.EmergencyContact = update.EmergencyContact
	}
	client.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeClientRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

// EnrollPrograms mirrors $addToSet with $each: existing members keep their
// position, new ids append in input order, duplicates are dropped.
func (r *fakeClientRepo) EnrollPrograms(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	seen := make(map[string]bool, len(client.EnrolledPrograms))
	for _, pid := range client.EnrolledPrograms {
		seen[pid] = true
	}
	for _, pid := range programIDs {
		if !seen[pid] {
			client.EnrolledPrograms = append(client.EnrolledPrograms, pid)
			seen[pid] = true
		}
	}
	client.UpdatedAt = time.Now().UTC()

	result := make([]string, len(client.EnrolledPrograms))
	copy(result, client.EnrolledPrograms)
	return result, nil
}

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs map[primitive.ObjectID]*domain.Program
	seq      map[primitive.ObjectID]int
	nextSeq  int
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{
		programs: make(map[primitive.ObjectID]*domain.Program),
		seq:      make(map[primitive.ObjectID]int),
	}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	stored := *program
	r.programs[program.ID] = &stored
	r.seq[program.ID] = r.nextSeq
	r.nextSeq++
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *program
	return &copied, nil
}

// GetAll returns programs newest first, like the createdAt desc sort in the
// real repository; createdAt ties fall back to insertion order.
func (r *fakeProgramRepo) GetAll(ctx context.Context) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	programs := make([]domain.Program, 0, len(r.programs))
	for _, program := range r.programs {
		programs = append(programs, *program)
	}
	sort.Slice(programs, func(i, j int) bool {
		ci, cj := programs[i].CreatedAt, programs[j].CreatedAt
		if ci.Equal(cj) {
			return r.seq[programs[i].ID] > r.seq[programs[j].ID]
		}
		return ci.After(cj)
	})
	return programs, nil
}

func (r *fakeProgramRepo) Update(ctx context.Context, id primitive.ObjectID, update domain.ProgramUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	program, ok := r.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		program.Name = *update.Name
	}
	if update.Type != nil {
		program.Type = *update.Type
	}
	if update.Description != nil {
		program.Description = *update.Description
	}
	if update.Goals != nil {
		program.Goals = *update.Goals
	}
	if update.StartDate != nil {
		program.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		program.EndDate = update.EndDate
	}
	if update.Status != nil {
		program.Status = *update.Status
	}
	program.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.users {
		if existing.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}

	user.ID = primitive.NewObjectID()
	user.Email = email
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[primitive.ObjectID]*domain.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[primitive.ObjectID]*domain.Attachment)}
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()

	stored := *attachment
	r.attachments[attachment.ID] = &stored
	return attachment.ID, nil
}

func (r *fakeAttachmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attachment, ok := r.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *attachment
	return &copied, nil
}

func (r *fakeAttachmentRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var attachments []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.ClientID == clientID {
			attachments = append(attachments, *attachment)
		}
	}
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return attachments, nil
}

func (r *fakeAttachmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.attachments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.attachments, id)
	return nil
}

// fakeFileStorage returns deterministic URLs and records deleted keys.
type fakeFileStorage struct {
	mu          sync.Mutex
	deletedKeys []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedKeys = append(s.deletedKeys, objectKey)
	return nil
}
