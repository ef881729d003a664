package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rioadmin/account-service/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col     *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// NewUserRepository bounds every call with timeout (defaultTimeout when <= 0).
func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &UserRepository{col: db.Collection(collectionUsers), timeout: timeout, now: time.Now}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	GoogleID     string             `bson:"google_id,omitempty"`
	Balance      float64            `bson:"balance"`
	Role         string             `bson:"role"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		Balance:      u.Balance,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (m *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		GoogleID:     m.GoogleID,
		Balance:      m.Balance,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// FindByID looks a user up by its hex ObjectID. Ids that are not valid
// ObjectIDs cannot exist and are reported as not found.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError("find user", err)
	}
	return mu.toDomain(), nil
}

// Create inserts a new user. Username and email collisions surface as
// domain.ErrUserExists through the unique indexes.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storeError("insert user", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// AdjustBalance runs the floor-clamped increment inside one findOneAndUpdate
// with an aggregation pipeline, so concurrent adjustments on the same user
// serialise on the document and never lose an update. The pre-image supplies
// the previous balance.
func (r *UserRepository) AdjustBalance(ctx context.Context, id string, delta float64) (float64, *domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// BSON dates carry milliseconds; truncating keeps the returned record
	// identical to the stored one.
	now := r.now().UTC().Truncate(time.Millisecond)
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"balance": bson.M{"$max": bson.A{
				0.0,
				bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$balance", 0.0}}, delta}},
			}},
			"updated_at": now,
		}}},
	}

	var before mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil, domain.ErrUserNotFound
		}
		return 0, nil, storeError("adjust balance", err)
	}

	after := before.toDomain()
	after.Balance = domain.ApplyDelta(before.Balance, delta)
	after.UpdatedAt = now
	return before.Balance, after, nil
}

// SetRole writes role and returns the updated record.
func (r *UserRepository) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("set role: unknown role %q", role)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"role": string(role), "updated_at": r.now().UTC()}}

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError("set role", err)
	}
	return mu.toDomain(), nil
}

// List returns every user, newest registration first, without password hashes.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password_hash": 0})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// Stats computes the admin dashboard figures in a single aggregation.
func (r *UserRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	weekAgo := r.now().UTC().Add(-7 * 24 * time.Hour)
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalUsers":   bson.M{"$sum": 1},
			"totalAdmins":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", string(domain.RoleAdmin)}}, 1, 0}}},
			"newThisWeek":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$gte": bson.A{"$created_at", weekAgo}}, 1, 0}}},
			"totalBalance": bson.M{"$sum": "$balance"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeError("user stats", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalUsers   int64   `bson:"totalUsers"`
		TotalAdmins  int64   `bson:"totalAdmins"`
		NewThisWeek  int64   `bson:"newThisWeek"`
		TotalBalance float64 `bson:"totalBalance"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeError("user stats", err)
	}

	stats := &domain.UserStats{}
	if len(rows) > 0 {
		stats.TotalUsers = rows[0].TotalUsers
		stats.TotalAdmins = rows[0].TotalAdmins
		stats.NewUsersThisWeek = rows[0].NewThisWeek
		stats.TotalBalance = rows[0].TotalBalance
	}
	return stats, nil
}

// EnsureIndexes creates the unique indexes backing username/email uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
