package users

import (
	"context"

	"gorm.io/gorm/clause"

	"socially/internal/core"
	"socially/internal/persistence"
)

type Repository struct {
	DB core.DB
}

func (r *Repository) GetByID(ctx context.Context, id string) (*core.User, error) {
	var user core.User
	err := r.DB.Handle(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	return &user, nil
}

func (r *Repository) GetByExternalID(ctx context.Context, externalID string) (*core.User, error) {
	var user core.User
	err := r.DB.Handle(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	return &user, nil
}

// Upsert inserts the user or, if the external identity is already known,
// refreshes the mutable display fields. Repeated syncs with identical input
// are no-ops in effect.
func (r *Repository) Upsert(ctx context.Context, user *core.User) error {
	err := r.DB.Handle(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{"username", "name", "email", "image", "updated_at"},
			),
		}).
		Create(user).Error
	return persistence.Translate(err)
}

func (r *Repository) ProfileByUsername(ctx context.Context, username string) (*core.Profile, error) {
	var profile core.Profile
	err := r.DB.Handle(ctx).
		Where("username = ?", username).
		First(&profile.User).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}

	db := r.DB.Handle(ctx)
	counts := []struct {
		dest  *int64
		model any
		where string
	}{
		{&profile.Followers, &core.Follow{}, "followee_id = ?"},
		{&profile.Following, &core.Follow{}, "follower_id = ?"},
		{&profile.Posts, &core.Post{}, "author_id = ?"},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, profile.ID).Count(c.dest).Error; err != nil {
			return nil, persistence.Translate(err)
		}
	}

	return &profile, nil
}

// Suggested returns users the viewer does not follow yet, excluding the
// viewer, newest first.
func (r *Repository) Suggested(ctx context.Context, viewerID string, limit int) ([]core.User, error) {
	var suggested []core.User
	err := r.DB.Handle(ctx).
		Where("id <> ?", viewerID).
		Where("id NOT IN (?)",
			r.DB.Handle(ctx).
				Model(&core.Follow{}).
				Select("followee_id").
				Where("follower_id = ?", viewerID),
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&suggested).Error
	if err != nil {
		return nil, persistence.Translate(err)
	}
	return suggested, nil
}
