package notifications

import (
	"context"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Insert(ctx context.Context, notification *core.Notification) error {
	return persistence.Translate(r.DB.Handle(ctx).Create(notification).Error)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]core.Notification, error) {
	var list []core.Notification
	err := r.DB.Handle(ctx).
		Preload("Creator").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	return list, nil
}

// MarkRead flips the read flag on the given notifications. The user filter
// keeps an actor from touching someone else's notifications.
func (r *Repository) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return persistence.Translate(
		r.DB.Handle(ctx).
			Model(&core.Notification{}).
			Where("user_id = ? AND id IN (?)", userID, ids).
			Update("read", true).Error,
	)
}
