package follows

import (
	"context"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	err := r.DB.Handle(ctx).
		Model(&core.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, persistence.Translate(err)
	}
	return count > 0, nil
}

func (r *Repository) Insert(ctx context.Context, follow *core.Follow) error {
	return persistence.Translate(r.DB.Handle(ctx).Create(follow).Error)
}

func (r *Repository) Delete(ctx context.Context, followerID, followeeID string) error {
	return persistence.Translate(
		r.DB.Handle(ctx).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&core.Follow{}).Error,
	)
}
