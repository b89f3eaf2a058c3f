package core

import (
	"time"
)

// User is the internal user record. It is created the first time an external
// session identity is seen and its display fields are refreshed on every
// subsequent sync. Users are never deleted by this service.
type User struct {
	ID         string `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"uniqueIndex;not null"`
	Name       string
	Email      string
	Image      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

type Post struct {
	ID       string `gorm:"primaryKey"`
	AuthorID string `gorm:"not null;index"`
	Content  string
	Image    string

	CreatedAt time.Time
	UpdatedAt time.Time

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

type Comment struct {
	ID       string `gorm:"primaryKey"`
	AuthorID string `gorm:"not null;index"`
	PostID   string `gorm:"not null;index"`
	Content  string `gorm:"not null"`

	CreatedAt time.Time

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string {
	return "comments"
}

// Like is a (user, post) join row. The composite primary key is the
// uniqueness guarantee: two racing first-likes cannot both insert.
type Like struct {
	UserID string `gorm:"primaryKey"`
	PostID string `gorm:"primaryKey"`

	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}

// Follow is a (follower, followee) join row, unique per ordered pair.
// Self-follows are rejected by the engine and by a schema CHECK.
type Follow struct {
	FollowerID string `gorm:"primaryKey"`
	FolloweeID string `gorm:"primaryKey"`

	CreatedAt time.Time
}

func (Follow) TableName() string {
	return "follows"
}

type NotificationKind string

const (
	NotificationLike    NotificationKind = "LIKE"
	NotificationComment NotificationKind = "COMMENT"
	NotificationFollow  NotificationKind = "FOLLOW"
)

// Notification is the fan-out record derived from an interaction. UserID is
// the recipient, CreatorID the actor; they always differ (self-suppression).
// PostID/CommentID cascade away with the content they reference.
type Notification struct {
	ID        string           `gorm:"primaryKey"`
	Kind      NotificationKind `gorm:"not null"`
	UserID    string           `gorm:"not null;index"`
	CreatorID string           `gorm:"not null"`
	PostID    *string
	CommentID *string
	Read      bool `gorm:"not null;default:false"`

	CreatedAt time.Time

	Creator *User `gorm:"foreignKey:CreatorID"`
}

func (Notification) TableName() string {
	return "notifications"
}

// FeedPost is a post decorated for the home feed: author, ordered comments,
// aggregate counts and whether the viewer already liked it.
type FeedPost struct {
	Post

	Comments     []Comment
	LikeCount    int64
	CommentCount int64
	LikedByView  bool
}

// Profile is a user with the counts shown on their page.
type Profile struct {
	User

	Followers int64
	Following int64
	Posts     int64
}
