package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"socially/internal/core"
	"socially/internal/notifications"
)

const suggestedLimit = 3

var (
	interactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socially_interactions_total",
		Help: "The total number of completed interaction operations",
	}, []string{"operation"})

	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socially_notifications_created_total",
		Help: "The total number of notification rows created by fan-out",
	}, []string{"kind"})
)

// Engine composes the authorization guard and the relationship store into
// atomic, idempotent interaction operations. An empty actorID means an
// anonymous caller: reads run with no viewer, writes return not-performed
// results without touching the store.
type Engine struct {
	Logger *slog.Logger

	DB               core.DB
	Users            core.UserRepository
	Posts            core.PostRepository
	Comments         core.CommentRepository
	Likes            core.LikeRepository
	Follows          core.FollowRepository
	NotificationRepo core.NotificationRepository
	Publisher        core.FeedPublisher
}

func (e *Engine) Init(_ context.Context) error {
	e.Logger = e.Logger.With("component", "engine.Engine")
	return nil
}

func (e *Engine) ToggleLike(ctx context.Context, actorID, postID string) (core.LikeState, error) {
	if actorID == "" {
		return core.LikeState{}, nil
	}

	post, err := e.Posts.Get(ctx, postID)
	if err != nil {
		return core.LikeState{}, err
	}

	liked, err := e.Likes.Exists(ctx, actorID, postID)
	if err != nil {
		return core.LikeState{}, err
	}

	if liked {
		// Idempotent: a racing second unlike finds nothing and succeeds.
		if err := e.Likes.Delete(ctx, actorID, postID); err != nil {
			return core.LikeState{}, err
		}
		e.finish(ctx, "unlike", actorID, postID)
		return core.LikeState{Performed: true, Liked: false}, nil
	}

	notification := notifications.ForLike(post, actorID)
	err = e.DB.Atomically(ctx, func(ctx context.Context) error {
		if err := e.Likes.Insert(ctx, &core.Like{UserID: actorID, PostID: postID}); err != nil {
			return err
		}
		if notification != nil {
			return e.NotificationRepo.Insert(ctx, notification)
		}
		return nil
	})
	if err != nil {
		return core.LikeState{}, err
	}

	if notification != nil {
		notificationsCreated.WithLabelValues(string(core.NotificationLike)).Inc()
	}
	e.finish(ctx, "like", actorID, postID)
	return core.LikeState{Performed: true, Liked: true}, nil
}

func (e *Engine) ToggleFollow(ctx context.Context, actorID, targetID string) (core.FollowState, error) {
	if actorID == "" {
		return core.FollowState{}, nil
	}
	if actorID == targetID {
		return core.FollowState{}, fmt.Errorf("%w: cannot follow yourself", core.ErrInvalidOperation)
	}

	if _, err := e.Users.GetByID(ctx, targetID); err != nil {
		return core.FollowState{}, err
	}

	following, err := e.Follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return core.FollowState{}, err
	}

	if following {
		if err := e.Follows.Delete(ctx, actorID, targetID); err != nil {
			return core.FollowState{}, err
		}
		e.finish(ctx, "unfollow", actorID, targetID)
		return core.FollowState{Performed: true, Following: false}, nil
	}

	notification := notifications.ForFollow(targetID, actorID)
	err = e.DB.Atomically(ctx, func(ctx context.Context) error {
		if err := e.Follows.Insert(ctx, &core.Follow{FollowerID: actorID, FolloweeID: targetID}); err != nil {
			return err
		}
		return e.NotificationRepo.Insert(ctx, notification)
	})
	if err != nil {
		return core.FollowState{}, err
	}

	notificationsCreated.WithLabelValues(string(core.NotificationFollow)).Inc()
	e.finish(ctx, "follow", actorID, targetID)
	return core.FollowState{Performed: true, Following: true}, nil
}

func (e *Engine) CreateComment(ctx context.Context, actorID, postID, content string) (*core.Comment, error) {
	if actorID == "" {
		return nil, nil
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", core.ErrInvalidOperation)
	}

	post, err := e.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &core.Comment{
		ID:       uuid.NewString(),
		AuthorID: actorID,
		PostID:   postID,
		Content:  content,
	}

	notification := notifications.ForComment(post, comment, actorID)
	err = e.DB.Atomically(ctx, func(ctx context.Context) error {
		if err := e.Comments.Insert(ctx, comment); err != nil {
			return err
		}
		if notification != nil {
			return e.NotificationRepo.Insert(ctx, notification)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notification != nil {
		notificationsCreated.WithLabelValues(string(core.NotificationComment)).Inc()
	}
	e.finish(ctx, "comment", actorID, postID)
	return comment, nil
}

func (e *Engine) CreatePost(ctx context.Context, actorID, content, image string) (*core.Post, error) {
	if actorID == "" {
		return nil, nil
	}

	content = strings.TrimSpace(content)
	image = strings.TrimSpace(image)
	if content == "" && image == "" {
		return nil, fmt.Errorf("%w: a post needs content or an image", core.ErrInvalidOperation)
	}

	post := &core.Post{
		ID:       uuid.NewString(),
		AuthorID: actorID,
		Content:  content,
		Image:    image,
	}
	if err := e.Posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	e.finish(ctx, "post", actorID, post.ID)
	return post, nil
}

func (e *Engine) DeletePost(ctx context.Context, actorID, postID string) error {
	if actorID == "" {
		return nil
	}

	post, err := e.Posts.Get(ctx, postID)
	if err != nil {
		return err
	}

	if !CanDeletePost(actorID, post) {
		return fmt.Errorf("%w: no delete permission", core.ErrUnauthorized)
	}

	// Comments, likes and notifications go with the post via FK cascades.
	if err := e.Posts.Delete(ctx, postID); err != nil {
		return err
	}

	e.finish(ctx, "delete_post", actorID, postID)
	return nil
}

func (e *Engine) Feed(ctx context.Context, viewerID string) ([]core.FeedPost, error) {
	return e.Posts.Feed(ctx, viewerID)
}

func (e *Engine) Profile(ctx context.Context, username string) (*core.Profile, error) {
	return e.Users.ProfileByUsername(ctx, username)
}

func (e *Engine) SuggestedUsers(ctx context.Context, viewerID string) ([]core.User, error) {
	if viewerID == "" {
		return []core.User{}, nil
	}
	return e.Users.Suggested(ctx, viewerID, suggestedLimit)
}

func (e *Engine) Notifications(ctx context.Context, actorID string) ([]core.Notification, error) {
	if actorID == "" {
		return []core.Notification{}, nil
	}
	return e.NotificationRepo.ListForUser(ctx, actorID)
}

func (e *Engine) MarkNotificationsRead(ctx context.Context, actorID string, ids []string) error {
	if actorID == "" {
		return nil
	}
	return e.NotificationRepo.MarkRead(ctx, actorID, ids)
}

// finish records the completed operation and signals "feed data changed" to
// the rendering layer. The mutation has already committed; a failed publish
// is logged, never propagated.
func (e *Engine) finish(ctx context.Context, operation, actorID, targetID string) {
	interactionsTotal.WithLabelValues(operation).Inc()

	event := core.InteractionEvent{
		ID:        uuid.NewString(),
		Operation: operation,
		ActorID:   actorID,
		TargetID:  targetID,
		At:        time.Now().UTC(),
	}
	if err := e.Publisher.Publish(ctx, event); err != nil {
		e.Logger.Error("failed to publish interaction event", "operation", operation, "error", err)
	}
}
