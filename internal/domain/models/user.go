// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - GitHubID / githubID / github_id: GitHub's stable account identifier (decimal string)

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a GitHub identity that has signed in at least once.
//
// A user is created on the first successful OAuth verification for a
// previously unseen github_id and is never mutated afterwards. The unique
// index on github_id is the source of truth for "one record per identity";
// concurrent first logins race on the insert and the loser re-reads.
type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// GitHubID is the provider-assigned account id, stored as a decimal
	// string (GitHub reports it as a number; usernames can change, the id
	// cannot).
	GitHubID string `bson:"github_id" json:"github_id"`

	// Username is the GitHub login at the time of first sign-in.
	Username string `bson:"username" json:"username"`

	// ProfileURL is the public GitHub profile page (optional).
	ProfileURL string `bson:"profile_url,omitempty" json:"profile_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
