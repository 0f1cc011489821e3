package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"
	"medidesk/clinic-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler tests run the real services over in-memory repositories, so the
// assertions below cover the full wire contract short of MongoDB itself.

type memClientRepo struct {
	clients map[primitive.ObjectID]*domain.Client
	order   []primitive.ObjectID
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (r *memClientRepo) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	email := strings.ToLower(strings.TrimSpace(client.Email))
	for _, existing := range r.clients {
		if existing.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}
	client.ID = primitive.NewObjectID()
	client.Email = email
	now := time.Now().UTC()
	client.RegistrationDate = now
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.EnrolledPrograms == nil {
		client.EnrolledPrograms = []string{}
	}
	stored := *client
	r.clients[client.ID] = &stored
	r.order = append(r.order, client.ID)
	return client.ID, nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *memClientRepo) GetAll(ctx context.Context) ([]domain.Client, error) {
	clients := make([]domain.Client, 0, len(r.clients))
	for _, id := range r.order {
		if client, ok := r.clients[id]; ok {
			clients = append(clients, *client)
		}
	}
	return clients, nil
}

func (r *memClientRepo) Update(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) error {
	client, ok := r.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		client.Name = *update.Name
	}
	if update.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*update.Email))
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

func (r *memClientRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *memClientRepo) EnrollPrograms(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error) {
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
	result := make([]string, len(client.EnrolledPrograms))
	copy(result, client.EnrolledPrograms)
	return result, nil
}

type memProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
	order    []primitive.ObjectID
}

func newMemProgramRepo() *memProgramRepo {
	return &memProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (r *memProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	stored := *program
	r.programs[program.ID] = &stored
	r.order = append(r.order, program.ID)
	return program.ID, nil
}

func (r *memProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	program, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *program
	return &copied, nil
}

func (r *memProgramRepo) GetAll(ctx context.Context) ([]domain.Program, error) {
	programs := make([]domain.Program, 0, len(r.programs))
	for _, id := range r.order {
		if program, ok := r.programs[id]; ok {
			programs = append(programs, *program)
		}
	}
	// Newest first, insertion order breaking ties.
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].CreatedAt.After(programs[j].CreatedAt)
	})
	return programs, nil
}

func (r *memProgramRepo) Update(ctx context.Context, id primitive.ObjectID, update domain.ProgramUpdate) error {
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

func (r *memProgramRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	return nil
}

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
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

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type memAttachmentRepo struct {
	attachments map[primitive.ObjectID]*domain.Attachment
}

func newMemAttachmentRepo() *memAttachmentRepo {
	return &memAttachmentRepo{attachments: make(map[primitive.ObjectID]*domain.Attachment)}
}

func (r *memAttachmentRepo) Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()
	stored := *attachment
	r.attachments[attachment.ID] = &stored
	return attachment.ID, nil
}

func (r *memAttachmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	attachment, ok := r.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *attachment
	return &copied, nil
}

func (r *memAttachmentRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Attachment, error) {
	attachments := []domain.Attachment{}
	for _, attachment := range r.attachments {
		if attachment.ClientID == clientID {
			attachments = append(attachments, *attachment)
		}
	}
	return attachments, nil
}

func (r *memAttachmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.attachments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.attachments, id)
	return nil
}

type stubStorage struct{}

func (stubStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (stubStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (stubStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

const testJWTSecret = "handler-test-secret"

// newTestRouter builds a router with the full route table backed by
// in-memory repositories.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	clientRepo := newMemClientRepo()
	authService := service.NewAuthService(newMemUserRepo(), testJWTSecret, 7*24*time.Hour)
	clientService := service.NewClientService(clientRepo)
	programService := service.NewProgramService(newMemProgramRepo())
	attachmentService := service.NewAttachmentService(newMemAttachmentRepo(), clientRepo, stubStorage{})

	router := gin.New()
	SetupRoutes(router, testJWTSecret, authService, clientService, programService, attachmentService)
	return router
}

// doJSON performs a request with an optional JSON body and optional bearer
// token, returning the recorded response.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
