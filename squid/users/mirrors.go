package users

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// how long a mirror document survives without updates; matches the
// ephemeral session TTL so the mirror never outlives its session by much
const mirrorExpirySeconds = 1800

// Mirror is the durable shadow of an active session, maintained by the
// page-visit subscriber off the request path. It is eventually
// consistent with the live session: a lost event leaves a gap here while
// the session still has the page.
type Mirror struct {
	SessionID    string    `bson:"session_id" json:"session_id"`
	UserID       string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	PagesVisited []string  `bson:"pages_visited" json:"pages_visited"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// MirrorRepository handles session mirror documents
type MirrorRepository struct {
	mirrors *mongo.Collection
}

// creates a new session mirror repository
func NewMirrorRepository(db *mongo.Database) *MirrorRepository {
	return &MirrorRepository{mirrors: db.Collection("session_mirrors")}
}

// EnsureIndexes creates the session_id lookup index and the TTL index
// that expires stale mirrors.
func (r *MirrorRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.mirrors.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(mirrorExpirySeconds),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create mirror indexes: %w", err)
	}

	return nil
}

// AppendPage pushes a visited page onto the session's mirror, creating
// the mirror on first write.
func (r *MirrorRepository) AppendPage(ctx context.Context, sessionID, userID, page string) error {
	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if userID != "" {
		set = append(set, bson.E{Key: "user_id", Value: userID})
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "pages_visited", Value: page}}},
		{Key: "$set", Value: set},
	}

	_, err := r.mirrors.UpdateOne(
		ctx,
		bson.D{{Key: "session_id", Value: sessionID}},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append page to mirror: %w", err)
	}

	return nil
}

// Remove drops the mirror when its session ends
func (r *MirrorRepository) Remove(ctx context.Context, sessionID string) error {
	if _, err := r.mirrors.DeleteOne(ctx, bson.D{{Key: "session_id", Value: sessionID}}); err != nil {
		return fmt.Errorf("failed to remove mirror: %w", err)
	}

	return nil
}
