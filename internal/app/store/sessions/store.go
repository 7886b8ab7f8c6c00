// internal/app/store/sessions/store.go
package sessions

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Token: the opaque random value carried by the session cookie

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Session is the server-side half of a login: a mapping from the cookie
// token to one user record, with a fixed expiry. The cookie never holds
// user data; everything resolvable from a token lives here.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"` // unique 32-byte random token
	UserID    primitive.ObjectID `bson:"user_id"`
	IPAddress string             `bson:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`

	// TTL expiration. Expiry is enforced lazily in GetByToken (the query
	// filters on it) and eventually by the TTL index and cleanup job.
	ExpiresAt time.Time `bson:"expires_at"`

	CreatedAt time.Time `bson:"created_at"`
}

// Store manages session records in MongoDB.
type Store struct {
	c *mongo.Collection
}

// New creates a new session Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// EnsureIndexes creates indexes for token lookup and TTL expiration.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_session_token"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_session_user"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_session_ttl"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create stores a new session.
func (s *Store) Create(ctx context.Context, session Session) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	_, err := s.c.InsertOne(ctx, session)
	return err
}

// GetByToken retrieves a live session by token.
// Returns mongo.ErrNoDocuments if the token is unknown or expired.
func (s *Store) GetByToken(ctx context.Context, token string) (*Session, error) {
	var session Session
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session by token. Deleting an absent token is not an
// error; logout must succeed no matter what state the session is in.
func (s *Store) Delete(ctx context.Context, token string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// DeleteByUser removes all sessions for a user.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// DeleteExpired removes sessions past their expiry. The TTL index does this
// eventually; the cleanup job calls this for promptness. Returns the number
// of sessions removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.c.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CountActive counts sessions that have not expired.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"expires_at": bson.M{"$gt": time.Now()},
	})
}

// ResolveToken returns the user id for a live token. This implements
// auth.TokenResolver.
func (s *Store) ResolveToken(ctx context.Context, token string) (string, bool) {
	session, err := s.GetByToken(ctx, token)
	if err != nil {
		return "", false
	}
	return session.UserID.Hex(), true
}

// RevokeToken removes the mapping for a token. This implements
// auth.TokenResolver.
func (s *Store) RevokeToken(ctx context.Context, token string) error {
	return s.Delete(ctx, token)
}
