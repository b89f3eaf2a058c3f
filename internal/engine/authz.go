package engine

import (
	"socially/internal/core"
)

// Stateless authorization predicates over already-resolved entities.
// They never mutate anything; a false answer surfaces as ErrUnauthorized
// before any write happens.

// CanDeletePost reports whether the actor owns the post. Posts are owned
// exclusively by their author.
func CanDeletePost(actorID string, post *core.Post) bool {
	return actorID == post.AuthorID
}

// CanActOnBehalfOf reports whether a session-derived user may act as the
// claimed user. The engine always derives the acting ID from the resolved
// session, so a mismatch can only come from caller-supplied input trying to
// spoof another identity.
func CanActOnBehalfOf(sessionUserID, claimedID string) bool {
	return sessionUserID == claimedID
}
