package core

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ExternalIdentity is the shape the session provider hands us per request.
// This service consumes it; it never implements the authentication itself.
type ExternalIdentity struct {
	ExternalID string `json:"externalId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatarUrl"`
}

// InteractionEvent is published after every successful mutation. It is the
// "feed data changed" signal the rendering layer's cache invalidation
// listens to.
type InteractionEvent struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	ActorID   string    `json:"actorId"`
	TargetID  string    `json:"targetId"`
	At        time.Time `json:"at"`
}

// LikeState is the outcome of a like toggle. Performed is false only for
// anonymous callers; it never reveals which branch ran beyond the new state.
type LikeState struct {
	Performed bool `json:"performed"`
	Liked     bool `json:"liked"`
}

type FollowState struct {
	Performed bool `json:"performed"`
	Following bool `json:"following"`
}

type DB interface {
	// Handle returns the gorm handle scoped to ctx: inside Atomically it is
	// the transaction, outside it is the base connection.
	Handle(ctx context.Context) *gorm.DB

	// Atomically runs fn in a single all-or-nothing transaction. Repository
	// calls made with the ctx passed to fn join that transaction.
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error

	EstimatedCount(ctx context.Context, table string) (int64, error)
	SQLDB() (*sql.DB, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Upsert(ctx context.Context, user *User) error
	ProfileByUsername(ctx context.Context, username string) (*Profile, error)
	Suggested(ctx context.Context, viewerID string, limit int) ([]User, error)
}

type PostRepository interface {
	Get(ctx context.Context, id string) (*Post, error)
	Insert(ctx context.Context, post *Post) error
	// Delete removes the post; comments, likes and notifications referencing
	// it go with it through the declared FK cascades.
	Delete(ctx context.Context, id string) error
	Feed(ctx context.Context, viewerID string) ([]FeedPost, error)
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *Comment) error
}

type LikeRepository interface {
	Exists(ctx context.Context, userID, postID string) (bool, error)
	Insert(ctx context.Context, like *Like) error
	// Delete is idempotent: deleting an absent like succeeds.
	Delete(ctx context.Context, userID, postID string) error
}

type FollowRepository interface {
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	Insert(ctx context.Context, follow *Follow) error
	// Delete is idempotent, mirroring LikeRepository.
	Delete(ctx context.Context, followerID, followeeID string) error
}

type NotificationRepository interface {
	Insert(ctx context.Context, notification *Notification) error
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
}

// IdentityProvider is the boundary to the external session provider.
// Lookup returns ErrNoSession for unknown or expired tokens.
type IdentityProvider interface {
	Lookup(ctx context.Context, token string) (*ExternalIdentity, error)
}

// IdentityResolver maps an external identity onto an internal user,
// creating or refreshing it. A nil identity resolves to a nil user.
type IdentityResolver interface {
	Resolve(ctx context.Context, identity *ExternalIdentity) (*User, error)
}

// FeedPublisher carries the invalidate(scope) signal. Publishing is
// best-effort from the engine's point of view: a failed publish is logged,
// the mutation itself has already committed.
type FeedPublisher interface {
	Publish(ctx context.Context, event InteractionEvent) error
}

// Engine is the social-interaction consistency engine. An empty actorID
// means an anonymous caller: reads proceed with no viewer, writes return
// not-performed results without touching the store.
type Engine interface {
	ToggleLike(ctx context.Context, actorID, postID string) (LikeState, error)
	ToggleFollow(ctx context.Context, actorID, targetID string) (FollowState, error)
	CreateComment(ctx context.Context, actorID, postID, content string) (*Comment, error)
	CreatePost(ctx context.Context, actorID, content, image string) (*Post, error)
	DeletePost(ctx context.Context, actorID, postID string) error

	Feed(ctx context.Context, viewerID string) ([]FeedPost, error)
	Profile(ctx context.Context, username string) (*Profile, error)
	SuggestedUsers(ctx context.Context, viewerID string) ([]User, error)
	Notifications(ctx context.Context, actorID string) ([]Notification, error)
	MarkNotificationsRead(ctx context.Context, actorID string, ids []string) error
}
