package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crudusers/user-admin/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
	usersCounterID     = "users"
)

// UserRepository stores users with numeric ids drawn from a counters
// collection so ids match the relational store.
type UserRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:      db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
		now:      time.Now,
	}
}

type userDocument struct {
	ID           int64   `bson:"_id"`
	Username     string  `bson:"username"`
	DisplayName  string  `bson:"display_name"`
	Email        *string `bson:"email,omitempty"`
	PasswordHash string  `bson:"password_hash"`
	Role         int     `bson:"role"`
	IsBlocked    bool    `bson:"is_blocked"`
	CreatedAt    int64   `bson:"created_at"`
	CreatedBy    *int64  `bson:"created_by,omitempty"`
	LastLoginAt  int64   `bson:"last_login_at,omitempty"`
}

func (r *UserRepository) FindByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "password_hash": passwordHash})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": r.now().Unix()}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User, passwordHash string, createdBy *int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	doc := userDocument{
		ID:           id,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Role:         int(user.Role),
		CreatedAt:    r.now().Unix(),
		CreatedBy:    createdBy,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, displayName string, email *string, role domain.Role, passwordHash *string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, updateDocument(displayName, email, role, passwordHash))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_blocked": blocked}}); err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

// updateDocument builds the $set/$unset for Update. A nil hash keeps the
// stored one and a nil email clears it.
func updateDocument(displayName string, email *string, role domain.Role, passwordHash *string) bson.M {
	set := bson.M{
		"display_name": displayName,
		"role":         int(role),
	}
	if passwordHash != nil {
		set["password_hash"] = *passwordHash
	}

	update := bson.M{"$set": set}
	if email != nil {
		set["email"] = *email
	} else {
		update["$unset"] = bson.M{"email": ""}
	}
	return update
}

func (d *userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:          d.ID,
		Username:    d.Username,
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Role:        domain.Role(d.Role),
		IsBlocked:   d.IsBlocked,
		CreatedAt:   unixToTime(d.CreatedAt),
		CreatedBy:   d.CreatedBy,
		LastLoginAt: unixToTime(d.LastLoginAt),
	}
	return u
}

func unixToTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
