package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
// It expects a connected *mongo.Database instance.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client record.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	// Field presence is validated in the service layer; this is a last guard.
	if client.Name == "" || client.Email == "" || client.Phone == "" {
		return primitive.NilObjectID, errors.New("client name, email, and phone are required")
	}

	client.ID = primitive.NewObjectID()
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	now := time.Now().UTC()
	if client.RegistrationDate.IsZero() {
		client.RegistrationDate = now
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.EnrolledPrograms == nil {
		client.EnrolledPrograms = []string{}
	}

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		// The unique index on email turns duplicate registration into a
		// duplicate key error regardless of request interleaving.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a client by its ObjectID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetAll retrieves every client record, unfiltered.
func (r *mongoClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// Update merges the non-nil fields of the update into the stored document.
func (r *mongoClientRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.ClientUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.DateOfBirth != nil {
		set["dateOfBirth"] = *update.DateOfBirth
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.MedicalHistory != nil {
		set["medicalHistory"] = *update.MedicalHistory
	}
	if update.EmergencyContact != nil {
		set["emergencyContact"] = *update.EmergencyContact
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a client record by id.
func (r *mongoClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnrollPrograms unions the given program ids into the client's
// enrolledPrograms set. $addToSet with $each makes the whole union one
// atomic document update: enrolling twice with the same ids is a no-op, and
// concurrent enrollments for the same client merge instead of racing a
// read-modify-write cycle.
func (r *mongoClientRepository) EnrollPrograms(ctx context.Context, id primitive.ObjectID, programIDs []string) ([]string, error) {
	update := bson.M{
		"$addToSet": bson.M{"enrolledPrograms": bson.M{"$each": programIDs}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	// ModifiedCount may be 0 when every id was already enrolled; that is the
	// idempotent success case, not an error.

	client, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return client.EnrolledPrograms, nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
// Call this once during application startup.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Supports "who is enrolled in program X" queries from the UI.
			Keys:    bson.D{{Key: "enrolledPrograms", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
