// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"net/http"
	"time"

	"github.com/brunocaldas/portfoliohub/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Window tracks requests from one client IP within a fixed counting window.
type Window struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	IPAddress    string             `bson:"ip_address"`    // Client IP the window belongs to
	RequestCount int                `bson:"request_count"` // Requests seen in the current window
	WindowStart  time.Time          `bson:"window_start"`  // When the current counting window started
	LastRequest  time.Time          `bson:"last_request"`  // Most recent request (for TTL cleanup)
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Store manages fixed-window request counting per client IP.
type Store struct {
	c              *mongo.Collection
	maxRequests    int
	windowDuration time.Duration
}

// New creates a new rate limit Store with the given configuration.
func New(db *mongo.Database, maxRequests int, window time.Duration) *Store {
	return &Store{
		c:              db.Collection("rate_limits"),
		maxRequests:    maxRequests,
		windowDuration: window,
	}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ip_address", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_ratelimit_ip"),
		},
		// Old windows age out after 24 hours without traffic.
		{
			Keys:    bson.D{{Key: "last_request", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(86400).SetName("idx_ratelimit_ttl"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Allow records a request from ip and reports whether it is within the
// window's budget. Store errors fail open: throttling is protection, not
// an availability dependency.
//
// Returns:
//   - allowed: true if the request should be processed
//   - remaining: requests left in the current window (0 when blocked)
func (s *Store) Allow(ctx context.Context, ip string) (allowed bool, remaining int) {
	now := time.Now()

	var w Window
	err := s.c.FindOne(ctx, bson.M{"ip_address": ip}).Decode(&w)
	if err != nil && err != mongo.ErrNoDocuments {
		return true, s.maxRequests
	}

	if err == mongo.ErrNoDocuments || now.After(w.WindowStart.Add(s.windowDuration)) {
		// First request, or the previous window has lapsed: start a new one.
		update := bson.M{
			"$set": bson.M{
				"request_count": 1,
				"window_start":  now,
				"last_request":  now,
				"updated_at":    now,
			},
			"$setOnInsert": bson.M{
				"ip_address": ip,
				"created_at": now,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := s.c.UpdateOne(ctx, bson.M{"ip_address": ip}, update, opts); err != nil {
			return true, s.maxRequests
		}
		return true, s.maxRequests - 1
	}

	if w.RequestCount >= s.maxRequests {
		return false, 0
	}

	update := bson.M{
		"$inc": bson.M{"request_count": 1},
		"$set": bson.M{
			"last_request": now,
			"updated_at":   now,
		},
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"ip_address": ip}, update); err != nil {
		return true, s.maxRequests
	}

	remaining = s.maxRequests - w.RequestCount - 1
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining
}

// Reset clears the window for an IP. Used by tests and operator tooling.
func (s *Store) Reset(ctx context.Context, ip string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"ip_address": ip})
	return err
}

// DeleteStale removes windows with no traffic since the cutoff. The TTL
// index does this eventually; the cleanup job calls this for promptness.
func (s *Store) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := s.c.DeleteMany(ctx, bson.M{
		"last_request": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Middleware returns HTTP middleware that throttles by client IP.
// Blocked requests get a plain 429; the window is shared across replicas
// because the counters live in MongoDB.
func Middleware(store *Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := network.GetClientIP(r)
			allowed, _ := store.Allow(r.Context(), ip)
			if !allowed {
				logger.Warn("rate limit exceeded",
					zap.String("ip", ip),
					zap.String("path", r.URL.Path))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
