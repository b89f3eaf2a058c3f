package posts

import (
	"context"

	"github.com/samber/lo"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) Get(ctx context.Context, id string) (*core.Post, error) {
	var post core.Post
	err := r.DB.Handle(ctx).
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	return &post, nil
}

func (r *Repository) Insert(ctx context.Context, post *core.Post) error {
	return persistence.Translate(r.DB.Handle(ctx).Create(post).Error)
}

// Delete removes the post row only; comments, likes and notifications
// referencing it are removed by the FK cascade actions declared in the
// schema, not orchestrated here.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return persistence.Translate(
		r.DB.Handle(ctx).
			Where("id = ?", id).
			Delete(&core.Post{}).Error,
	)
}

// Feed returns all posts newest first, each with its author, its comments
// in creation order, aggregate counts and whether the viewer liked it.
// viewerID may be empty for anonymous readers.
func (r *Repository) Feed(ctx context.Context, viewerID string) ([]core.FeedPost, error) {
	var posts []core.Post
	err := r.DB.Handle(ctx).
		Preload("Author").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	if len(posts) == 0 {
		return []core.FeedPost{}, nil
	}

	postIDs := lo.Map(posts, func(p core.Post, _ int) string { return p.ID })

	var comments []core.Comment
	err = r.DB.Handle(ctx).
		Preload("Author").
		Where("post_id IN (?)", postIDs).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	commentsByPost := lo.GroupBy(comments, func(c core.Comment) string { return c.PostID })

	var likes []core.Like
	err = r.DB.Handle(ctx).
		Where("post_id IN (?)", postIDs).
		Find(&likes).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	likesByPost := lo.GroupBy(likes, func(l core.Like) string { return l.PostID })

	return lo.Map(posts, func(p core.Post, _ int) core.FeedPost {
		postLikes := likesByPost[p.ID]
		return core.FeedPost{
			Post:         p,
			Comments:     commentsByPost[p.ID],
			LikeCount:    int64(len(postLikes)),
			CommentCount: int64(len(commentsByPost[p.ID])),
			LikedByView: viewerID != "" && lo.ContainsBy(postLikes, func(l core.Like) bool {
				return l.UserID == viewerID
			}),
		}
	}), nil
}
