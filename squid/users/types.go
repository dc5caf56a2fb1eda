package users

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"codeberg.org/squidlabs/server/squid/preferences"
	"codeberg.org/squidlabs/server/squid/session"
)

// handles user document operations
type Repository struct {
	users *mongo.Collection
}

// User is the durable per-user document: the source of truth for
// preferences and historical session summaries. The sessions array is
// append-only and never reordered; preferences hold the single current
// value (last writer wins).
type User struct {
	ID             bson.ObjectID           `bson:"_id,omitempty" json:"-"`
	UserID         string                  `bson:"user_id" json:"user_id"`
	Username       string                  `bson:"username" json:"username"`
	CredentialHash string                  `bson:"credential_hash" json:"-"`
	Preferences    preferences.Preferences `bson:"preferences" json:"preferences"`
	Sessions       []session.Summary       `bson:"sessions" json:"sessions"`
	CreatedAt      time.Time               `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time               `bson:"updated_at" json:"updated_at"`
}
