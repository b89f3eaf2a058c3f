// Package notifications holds the fan-out rule: a notification row is
// derived from an interaction if and only if the content owner is not the
// actor. The same self-suppression applies to likes, comments and follows.
package notifications

import (
	"github.com/google/uuid"

	"socially/internal/core"
)

// ForLike returns the LIKE notification for the post's author, or nil when
// the actor liked their own post.
func ForLike(post *core.Post, actorID string) *core.Notification {
	if post.AuthorID == actorID {
		return nil
	}
	return &core.Notification{
		ID:        uuid.NewString(),
		Kind:      core.NotificationLike,
		UserID:    post.AuthorID,
		CreatorID: actorID,
		PostID:    &post.ID,
	}
}

// ForComment returns the COMMENT notification referencing both the post and
// the new comment, or nil when the actor commented on their own post.
func ForComment(post *core.Post, comment *core.Comment, actorID string) *core.Notification {
	if post.AuthorID == actorID {
		return nil
	}
	return &core.Notification{
		ID:        uuid.NewString(),
		Kind:      core.NotificationComment,
		UserID:    post.AuthorID,
		CreatorID: actorID,
		PostID:    &post.ID,
		CommentID: &comment.ID,
	}
}

// ForFollow returns the FOLLOW notification for the followee. The engine
// rejects self-follows before this point; the rule still suppresses them.
func ForFollow(followeeID, actorID string) *core.Notification {
	if followeeID == actorID {
		return nil
	}
	return &core.Notification{
		ID:        uuid.NewString(),
		Kind:      core.NotificationFollow,
		UserID:    followeeID,
		CreatorID: actorID,
	}
}
