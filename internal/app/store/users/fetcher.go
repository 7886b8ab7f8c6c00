// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/brunocaldas/portfoliohub/internal/app/system/timeouts"
	"github.com/brunocaldas/portfoliohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher. The session cookie carries only an
// opaque token; the user record is re-fetched here on every request so a
// deleted record invalidates the session immediately.
type Fetcher struct {
	users  *mongo.Collection
	logger *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users:  db.Collection("users"),
		logger: logger,
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found
// or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.logger.Warn("user fetch failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	return &auth.SessionUser{
		ID:         u.ID.Hex(),
		Username:   u.Username,
		ProfileURL: u.ProfileURL,
	}
}
