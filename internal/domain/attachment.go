package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment stores metadata about a document kept against a client record
// (scanned referral, lab result, consent form). The file itself lives in S3;
// only the object key is persisted here.
type Attachment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
