package likes

import (
	"context"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := r.DB.Handle(ctx).
		Model(&core.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, persistence.Translate(err)
	}
	return count > 0, nil
}

func (r *Repository) Insert(ctx context.Context, like *core.Like) error {
	return persistence.Translate(r.DB.Handle(ctx).Create(like).Error)
}

// Delete removes the like if present. An already-absent like is success:
// a retried unlike must be benign.
func (r *Repository) Delete(ctx context.Context, userID, postID string) error {
	return persistence.Translate(
		r.DB.Handle(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&core.Like{}).Error,
	)
}
