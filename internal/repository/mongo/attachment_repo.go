package mongo

import (
	"context"
	"errors"
	"time"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attachmentCollectionName = "attachments"

// mongoAttachmentRepository implements repository.AttachmentRepository.
type mongoAttachmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAttachmentRepository creates a new Attachment repository backed by MongoDB.
func NewMongoAttachmentRepository(db *mongo.Database) repository.AttachmentRepository {
	return &mongoAttachmentRepository{
		collection: db.Collection(attachmentCollectionName),
	}
}

// Create inserts new attachment metadata.
func (r *mongoAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	if attachment.ClientID == primitive.NilObjectID || attachment.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("attachment requires clientId and s3ObjectKey")
	}

	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, attachment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves attachment metadata by its ObjectID.
func (r *mongoAttachmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&attachment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// GetByClientID retrieves all attachments for a client, newest first.
func (r *mongoAttachmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment

	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &attachments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return attachments, nil
}

// Delete removes attachment metadata by id.
func (r *mongoAttachmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAttachmentIndexes creates necessary indexes for the attachments collection.
func EnsureAttachmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
