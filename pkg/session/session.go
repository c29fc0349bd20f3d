// Package session persists per-viewer state for the serve command.
//
// Every viewer of a served heatmap sorts independently. A [Session]
// records the viewer's display order and active sort so the interaction
// state survives server restarts and can be shared between instances.
//
// Backends:
//   - [MemoryStore]: in-process, the default
//   - [FileStore]: one JSON file per session
//   - [MongoStore]: a MongoDB collection with a TTL index
//
// Usage:
//
//	sess := session.New(session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // not found or expired
//	}
package session

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one viewer's interaction state.
type Session struct {
	ID string `json:"id" bson:"_id"`

	// Order is the display order as data row indices. Empty means data order.
	Order []int `json:"order,omitempty" bson:"order,omitempty"`

	// Column is the id of the sorted column, State its direction.
	Column string `json:"column,omitempty" bson:"column,omitempty"`
	State  string `json:"state,omitempty" bson:"state,omitempty"`

	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// New creates a session with a random UUID.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Order = slices.Clone(s.Order)
	return &c
}

// Valid reports whether id is a well-formed session id.
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error

	Close() error
}
