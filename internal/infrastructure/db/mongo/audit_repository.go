package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rioadmin/account-service/internal/core/domain"
)

const collectionAudit = "admin_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewAuditRepository(db *mongo.Database, timeout time.Duration) *AuditRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AuditRepository{col: db.Collection(collectionAudit), timeout: timeout}
}

// Insert appends an entry to the admin_audit collection.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := bson.M{
		"action":         string(entry.Action),
		"actor_id":       entry.ActorID,
		"target_user_id": entry.TargetUserID,
		"message":        entry.Message,
		"created_at":     entry.CreatedAt.UTC(),
	}
	if entry.Previous != "" {
		doc["previous"] = entry.Previous
	}
	if entry.Current != "" {
		doc["current"] = entry.Current
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return storeError("insert audit entry", err)
	}
	return nil
}

// EnsureIndexes indexes the audit trail by target user and recency.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "target_user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("target_recent"),
	})
	return err
}
