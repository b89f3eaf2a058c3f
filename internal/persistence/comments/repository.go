package comments

import (
	"context"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Insert(ctx context.Context, comment *core.Comment) error {
	return persistence.Translate(r.DB.Handle(ctx).Create(comment).Error)
}
