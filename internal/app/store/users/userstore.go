// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - GitHubID / githubID / github_id: GitHub's stable account identifier (decimal string)

import (
	"context"
	"errors"
	"time"

	"github.com/brunocaldas/portfoliohub/internal/app/system/htmlsanitize"
	"github.com/brunocaldas/portfoliohub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateGitHubID is returned when an insert collides with the unique
	// index on github_id (two first-logins racing for the same identity).
	ErrDuplicateGitHubID = errors.New("a user with this GitHub ID already exists")

	errMissingGitHubID = errors.New("github_id is required")
	errMissingUsername = errors.New("username is required")
)

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGitHubID looks up a user by the provider-assigned account id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByGitHubID(ctx context.Context, githubID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"github_id": githubID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after sanitizing provider-supplied fields.
// The unique index on github_id rejects duplicates; callers that can race
// should use FindOrCreate instead.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.GitHubID == "" {
		return models.User{}, errMissingGitHubID
	}

	// Provider data is untrusted input even when it comes from GitHub's API.
	u.Username = htmlsanitize.StripMarkup(u.Username)
	u.ProfileURL = htmlsanitize.StripMarkup(u.ProfileURL)
	if u.Username == "" {
		return models.User{}, errMissingUsername
	}

	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateGitHubID
		}
		return models.User{}, err
	}
	return u, nil
}

// FindOrCreate returns the user for githubID, creating it on first sight.
//
// The operation is idempotent under concurrent retries: a duplicate-key
// failure from a racing insert means the record exists now, so it is
// re-read rather than surfaced. Any other store error is returned as-is
// and no user is reported.
func (s *Store) FindOrCreate(ctx context.Context, githubID, username, profileURL string) (*models.User, error) {
	u, err := s.GetByGitHubID(ctx, githubID)
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		GitHubID:   githubID,
		Username:   username,
		ProfileURL: profileURL,
	})
	if err == nil {
		return &created, nil
	}
	if errors.Is(err, ErrDuplicateGitHubID) {
		// Lost the race; the record exists now.
		return s.GetByGitHubID(ctx, githubID)
	}
	return nil, err
}

// Count returns the number of user records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
