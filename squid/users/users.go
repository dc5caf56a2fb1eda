package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"codeberg.org/squidlabs/server/squid/preferences"
	"codeberg.org/squidlabs/server/squid/session"
)

// creates a new user repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection("users")}
}

// EnsureIndexes creates the unique username index. Called once on startup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create username index: %w", err)
	}

	return nil
}

// Create registers a new user with default preferences and a bcrypt
// credential hash.
func (r *Repository) Create(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	now := time.Now()
	user := &User{
		UserID:         uuid.NewString(),
		Username:       username,
		CredentialHash: string(hash),
		Preferences:    preferences.Defaults(),
		Sessions:       []session.Summary{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}

		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// finds a user by username
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User

	err := r.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// finds a user by their stable ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	var user User

	err := r.users.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// VerifyCredentials looks up a user and checks the supplied password
// against the stored hash. A missing user and a wrong password are
// indistinguishable to the caller.
func (r *Repository) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := r.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdatePreferences replaces the durable preference set (full replace,
// not merge). Upserts so a record created by an out-of-band path still
// receives the write.
func (r *Repository) UpdatePreferences(ctx context.Context, userID string, p preferences.Preferences) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "preferences", Value: p},
		{Key: "updated_at", Value: time.Now()},
	}}}

	_, err := r.users.UpdateOne(
		ctx,
		bson.D{{Key: "user_id", Value: userID}},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	return nil
}

// AppendSession pushes a completed session summary onto the user's
// sessions array. Entries are never updated or removed afterwards.
func (r *Repository) AppendSession(ctx context.Context, userID string, s session.Summary) error {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "sessions", Value: s}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}

	result, err := r.users.UpdateOne(ctx, bson.D{{Key: "user_id", Value: userID}}, update)
	if err != nil {
		return fmt.Errorf("failed to append session summary: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
