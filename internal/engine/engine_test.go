package engine_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"maps"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socially/internal/core"
	"socially/internal/engine"
)

// state is a shared in-memory relationship store. Like and Follow keys
// enforce the same composite uniqueness the schema declares, so toggle
// races behave like they do against Postgres.
type state struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[string]core.User
	posts         map[string]core.Post
	comments      map[string]core.Comment
	likes         map[string]core.Like
	follows       map[string]core.Follow
	notifications map[string]core.Notification

	likeInsertErr         error
	notificationInsertErr error

	// likeExistsBarrier, when set, is waited on after an Exists check so two
	// concurrent toggles can both observe "absent" before either inserts.
	likeExistsBarrier *sync.WaitGroup
}

func newState() *state {
	return &state{
		users:         map[string]core.User{},
		posts:         map[string]core.Post{},
		comments:      map[string]core.Comment{},
		likes:         map[string]core.Like{},
		follows:       map[string]core.Follow{},
		notifications: map[string]core.Notification{},
	}
}

func pairKey(a, b string) string {
	return a + "/" + b
}

func (s *state) clone() *state {
	return &state{
		users:         maps.Clone(s.users),
		posts:         maps.Clone(s.posts),
		comments:      maps.Clone(s.comments),
		likes:         maps.Clone(s.likes),
		follows:       maps.Clone(s.follows),
		notifications: maps.Clone(s.notifications),
	}
}

func (s *state) restore(from *state) {
	s.users = from.users
	s.posts = from.posts
	s.comments = from.comments
	s.likes = from.likes
	s.follows = from.follows
	s.notifications = from.notifications
}

type fakeDB struct {
	s *state
}

func (f *fakeDB) Handle(context.Context) *gorm.DB { return nil }

// Atomically emulates all-or-nothing semantics: transactions serialize, and
// a failing body restores the pre-transaction state.
func (f *fakeDB) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	f.s.txMu.Lock()
	defer f.s.txMu.Unlock()

	f.s.mu.Lock()
	saved := f.s.clone()
	f.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.s.mu.Lock()
		f.s.restore(saved)
		f.s.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeDB) EstimatedCount(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeDB) SQLDB() (*sql.DB, error)                               { return nil, errors.New("not implemented") }

type fakeUsers struct{ s *state }

func (f *fakeUsers) GetByID(_ context.Context, id string) (*core.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	user, ok := f.s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUsers) GetByExternalID(_ context.Context, externalID string) (*core.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, user := range f.s.users {
		if user.ExternalID == externalID {
			return &user, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) Upsert(_ context.Context, user *core.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) ProfileByUsername(_ context.Context, username string) (*core.Profile, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, user := range f.s.users {
		if user.Username == username {
			return &core.Profile{User: user}, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) Suggested(_ context.Context, viewerID string, limit int) ([]core.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var suggested []core.User
	for id, user := range f.s.users {
		if id == viewerID {
			continue
		}
		if _, following := f.s.follows[pairKey(viewerID, id)]; following {
			continue
		}
		if len(suggested) < limit {
			suggested = append(suggested, user)
		}
	}
	return suggested, nil
}

type fakePosts struct{ s *state }

func (f *fakePosts) Get(_ context.Context, id string) (*core.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	post, ok := f.s.posts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &post, nil
}

func (f *fakePosts) Insert(_ context.Context, post *core.Post) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.posts[post.ID] = *post
	return nil
}

// Delete cascades the way the schema's FK actions do.
func (f *fakePosts) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.posts, id)
	maps.DeleteFunc(f.s.comments, func(_ string, c core.Comment) bool { return c.PostID == id })
	maps.DeleteFunc(f.s.likes, func(_ string, l core.Like) bool { return l.PostID == id })
	maps.DeleteFunc(f.s.notifications, func(_ string, n core.Notification) bool {
		return n.PostID != nil && *n.PostID == id
	})
	return nil
}

func (f *fakePosts) Feed(_ context.Context, viewerID string) ([]core.FeedPost, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return lo.Map(lo.Values(f.s.posts), func(p core.Post, _ int) core.FeedPost {
		likes := lo.Filter(lo.Values(f.s.likes), func(l core.Like, _ int) bool { return l.PostID == p.ID })
		return core.FeedPost{
			Post:      p,
			LikeCount: int64(len(likes)),
			LikedByView: viewerID != "" && lo.ContainsBy(likes, func(l core.Like) bool {
				return l.UserID == viewerID
			}),
		}
	}), nil
}

type fakeComments struct{ s *state }

func (f *fakeComments) Insert(_ context.Context, comment *core.Comment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.comments[comment.ID] = *comment
	return nil
}

type fakeLikes struct{ s *state }

func (f *fakeLikes) Exists(_ context.Context, userID, postID string) (bool, error) {
	f.s.mu.Lock()
	_, ok := f.s.likes[pairKey(userID, postID)]
	barrier := f.s.likeExistsBarrier
	f.s.mu.Unlock()

	if barrier != nil {
		barrier.Done()
		barrier.Wait()
	}
	return ok, nil
}

func (f *fakeLikes) Insert(_ context.Context, like *core.Like) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.likeInsertErr != nil {
		return f.s.likeInsertErr
	}
	key := pairKey(like.UserID, like.PostID)
	if _, exists := f.s.likes[key]; exists {
		return core.ErrConflictRetry
	}
	f.s.likes[key] = *like
	return nil
}

func (f *fakeLikes) Delete(_ context.Context, userID, postID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.likes, pairKey(userID, postID))
	return nil
}

type fakeFollows struct{ s *state }

func (f *fakeFollows) Exists(_ context.Context, followerID, followeeID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.follows[pairKey(followerID, followeeID)]
	return ok, nil
}

func (f *fakeFollows) Insert(_ context.Context, follow *core.Follow) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	key := pairKey(follow.FollowerID, follow.FolloweeID)
	if _, exists := f.s.follows[key]; exists {
		return core.ErrConflictRetry
	}
	f.s.follows[key] = *follow
	return nil
}

func (f *fakeFollows) Delete(_ context.Context, followerID, followeeID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.follows, pairKey(followerID, followeeID))
	return nil
}

type fakeNotifications struct{ s *state }

func (f *fakeNotifications) Insert(_ context.Context, notification *core.Notification) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.notificationInsertErr != nil {
		return f.s.notificationInsertErr
	}
	f.s.notifications[notification.ID] = *notification
	return nil
}

func (f *fakeNotifications) ListForUser(_ context.Context, userID string) ([]core.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return lo.Filter(lo.Values(f.s.notifications), func(n core.Notification, _ int) bool {
		return n.UserID == userID
	}), nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID string, ids []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, id := range ids {
		n, ok := f.s.notifications[id]
		if !ok || n.UserID != userID {
			continue
		}
		n.Read = true
		f.s.notifications[id] = n
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []core.InteractionEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event core.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.Map(f.events, func(e core.InteractionEvent, _ int) string { return e.Operation })
}

func newEngine(s *state) (*engine.Engine, *fakePublisher) {
	publisher := &fakePublisher{}
	e := &engine.Engine{
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		DB:               &fakeDB{s},
		Users:            &fakeUsers{s},
		Posts:            &fakePosts{s},
		Comments:         &fakeComments{s},
		Likes:            &fakeLikes{s},
		Follows:          &fakeFollows{s},
		NotificationRepo: &fakeNotifications{s},
		Publisher:        publisher,
	}
	return e, publisher
}

// seed creates the author "alice" with post "p1" and a second user "bob".
func seed(s *state) {
	s.users["alice"] = core.User{ID: "alice", Username: "alice", ExternalID: "ext-alice"}
	s.users["bob"] = core.User{ID: "bob", Username: "bob", ExternalID: "ext-bob"}
	s.posts["p1"] = core.Post{ID: "p1", AuthorID: "alice", Content: "hello"}
}

func notificationsFor(s *state, userID string) []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(lo.Values(s.notifications), func(n core.Notification, _ int) bool {
		return n.UserID == userID
	})
}

func TestEngine_ToggleLike(t *testing.T) {
	t.Parallel()

	t.Run("toggle parity over many calls", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		for n := 1; n <= 5; n++ {
			state, err := e.ToggleLike(t.Context(), "bob", "p1")
			require.NoError(t, err)
			require.True(t, state.Performed)
			require.Equal(t, n%2 == 1, state.Liked)
		}

		// 3 like transitions on someone else's post, 3 notifications.
		require.Len(t, notificationsFor(s, "alice"), 3)
	})

	t.Run("like creates notification for the author", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, publisher := newEngine(s)

		state, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)
		require.True(t, state.Liked)

		require.Contains(t, s.likes, "bob/p1")

		created := notificationsFor(s, "alice")
		require.Len(t, created, 1)
		require.Equal(t, core.NotificationLike, created[0].Kind)
		require.Equal(t, "bob", created[0].CreatorID)
		require.Equal(t, "p1", *created[0].PostID)

		require.Equal(t, []string{"like"}, publisher.operations())
	})

	t.Run("own post is self-suppressed", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		state, err := e.ToggleLike(t.Context(), "alice", "p1")
		require.NoError(t, err)
		require.True(t, state.Liked)
		require.Empty(t, s.notifications)
	})

	t.Run("unlike keeps the original notification", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)

		state, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)
		require.False(t, state.Liked)

		require.NotContains(t, s.likes, "bob/p1")
		require.Len(t, notificationsFor(s, "alice"), 1)
	})

	t.Run("anonymous is a silent no-op", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, publisher := newEngine(s)

		state, err := e.ToggleLike(t.Context(), "", "p1")
		require.NoError(t, err)
		require.False(t, state.Performed)
		require.Empty(t, s.likes)
		require.Empty(t, publisher.operations())
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "nope")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("notification failure rolls back the like", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		s.notificationInsertErr = core.ErrStoreUnavailable
		e, publisher := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.ErrorIs(t, err, core.ErrStoreUnavailable)

		require.Empty(t, s.likes)
		require.Empty(t, s.notifications)
		require.Empty(t, publisher.operations())
	})

	t.Run("lost uniqueness race maps to conflict", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		s.likeInsertErr = core.ErrConflictRetry
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.ErrorIs(t, err, core.ErrConflictRetry)
		require.Empty(t, s.notifications)
	})

	t.Run("concurrent first likes produce one row and one notification", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)

		// Both invocations observe "absent" before either inserts.
		barrier := &sync.WaitGroup{}
		barrier.Add(2)
		s.likeExistsBarrier = barrier

		e, _ := newEngine(s)

		errs := make(chan error, 2)
		for range 2 {
			go func() {
				_, err := e.ToggleLike(t.Context(), "bob", "p1")
				errs <- err
			}()
		}

		results := []error{<-errs, <-errs}
		conflicts := lo.CountBy(results, func(err error) bool {
			return errors.Is(err, core.ErrConflictRetry)
		})
		require.Equal(t, 1, conflicts, "exactly one toggle must lose the race")

		require.Len(t, s.likes, 1)
		require.Len(t, notificationsFor(s, "alice"), 1)
	})
}

func TestEngine_ToggleFollow(t *testing.T) {
	t.Parallel()

	t.Run("self-follow is rejected with no rows", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, publisher := newEngine(s)

		_, err := e.ToggleFollow(t.Context(), "bob", "bob")
		require.ErrorIs(t, err, core.ErrInvalidOperation)
		require.Empty(t, s.follows)
		require.Empty(t, s.notifications)
		require.Empty(t, publisher.operations())
	})

	t.Run("follow notifies the followee", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		state, err := e.ToggleFollow(t.Context(), "bob", "alice")
		require.NoError(t, err)
		require.True(t, state.Following)

		require.Contains(t, s.follows, "bob/alice")

		created := notificationsFor(s, "alice")
		require.Len(t, created, 1)
		require.Equal(t, core.NotificationFollow, created[0].Kind)
		require.Equal(t, "bob", created[0].CreatorID)
		require.Nil(t, created[0].PostID)
	})

	t.Run("unfollow removes the row", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleFollow(t.Context(), "bob", "alice")
		require.NoError(t, err)

		state, err := e.ToggleFollow(t.Context(), "bob", "alice")
		require.NoError(t, err)
		require.False(t, state.Following)
		require.Empty(t, s.follows)
	})

	t.Run("at most one follow row per pair", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleFollow(t.Context(), "bob", "alice")
		require.NoError(t, err)

		// Simulate a duplicate create racing past the existence check.
		err = (&fakeFollows{s}).Insert(t.Context(), &core.Follow{FollowerID: "bob", FolloweeID: "alice"})
		require.ErrorIs(t, err, core.ErrConflictRetry)
		require.Len(t, s.follows, 1)
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleFollow(t.Context(), "bob", "ghost")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("anonymous is a silent no-op", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		state, err := e.ToggleFollow(t.Context(), "", "alice")
		require.NoError(t, err)
		require.False(t, state.Performed)
		require.Empty(t, s.follows)
	})
}

func TestEngine_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("empty content is invalid", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		for _, content := range []string{"", "   ", "\n\t"} {
			_, err := e.CreateComment(t.Context(), "bob", "p1", content)
			require.ErrorIs(t, err, core.ErrInvalidOperation)
		}
		require.Empty(t, s.comments)
	})

	t.Run("comment on another's post notifies with both references", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		comment, err := e.CreateComment(t.Context(), "bob", "p1", "  nice post ")
		require.NoError(t, err)
		require.Equal(t, "nice post", comment.Content)
		require.Contains(t, s.comments, comment.ID)

		created := notificationsFor(s, "alice")
		require.Len(t, created, 1)
		require.Equal(t, core.NotificationComment, created[0].Kind)
		require.Equal(t, "p1", *created[0].PostID)
		require.Equal(t, comment.ID, *created[0].CommentID)
	})

	t.Run("own post is self-suppressed", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.CreateComment(t.Context(), "alice", "p1", "me again")
		require.NoError(t, err)
		require.Empty(t, s.notifications)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.CreateComment(t.Context(), "bob", "nope", "hi")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("notification failure rolls back the comment", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		s.notificationInsertErr = core.ErrStoreUnavailable
		e, _ := newEngine(s)

		_, err := e.CreateComment(t.Context(), "bob", "p1", "hi")
		require.ErrorIs(t, err, core.ErrStoreUnavailable)
		require.Empty(t, s.comments)
		require.Empty(t, s.notifications)
	})

	t.Run("anonymous is a silent no-op", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		comment, err := e.CreateComment(t.Context(), "", "p1", "hi")
		require.NoError(t, err)
		require.Nil(t, comment)
		require.Empty(t, s.comments)
	})
}

func TestEngine_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("needs content or image", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.CreatePost(t.Context(), "bob", "  ", "")
		require.ErrorIs(t, err, core.ErrInvalidOperation)
	})

	t.Run("image-only post is allowed", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, publisher := newEngine(s)

		post, err := e.CreatePost(t.Context(), "bob", "", "https://cdn.example/cat.png")
		require.NoError(t, err)
		require.Contains(t, s.posts, post.ID)
		require.Equal(t, []string{"post"}, publisher.operations())
	})

	t.Run("no notification is created", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.CreatePost(t.Context(), "bob", "hello world", "")
		require.NoError(t, err)
		require.Empty(t, s.notifications)
	})

	t.Run("anonymous is a silent no-op", func(t *testing.T) {
		t.Parallel()

		s := newState()
		e, _ := newEngine(s)

		post, err := e.CreatePost(t.Context(), "", "hello", "")
		require.NoError(t, err)
		require.Nil(t, post)
		require.Empty(t, s.posts)
	})
}

func TestEngine_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("non-author is unauthorized, nothing deleted", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, publisher := newEngine(s)

		err := e.DeletePost(t.Context(), "bob", "p1")
		require.ErrorIs(t, err, core.ErrUnauthorized)
		require.Contains(t, s.posts, "p1")
		require.Empty(t, publisher.operations())
	})

	t.Run("author delete cascades", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)
		_, err = e.CreateComment(t.Context(), "bob", "p1", "hi")
		require.NoError(t, err)

		err = e.DeletePost(t.Context(), "alice", "p1")
		require.NoError(t, err)

		require.Empty(t, s.posts)
		require.Empty(t, s.comments)
		require.Empty(t, s.likes)
		require.Empty(t, s.notifications)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		err := e.DeletePost(t.Context(), "alice", "nope")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("anonymous is a silent no-op", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		require.NoError(t, e.DeletePost(t.Context(), "", "p1"))
		require.Contains(t, s.posts, "p1")
	})
}

func TestEngine_PublishFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()

	s := newState()
	seed(s)
	e, publisher := newEngine(s)
	publisher.err = errors.New("nats is down")

	state, err := e.ToggleLike(t.Context(), "bob", "p1")
	require.NoError(t, err)
	require.True(t, state.Liked)
	require.Contains(t, s.likes, "bob/p1")
}

func TestEngine_Reads(t *testing.T) {
	t.Parallel()

	t.Run("feed marks viewer likes", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)

		feed, err := e.Feed(t.Context(), "bob")
		require.NoError(t, err)
		require.Len(t, feed, 1)
		require.True(t, feed[0].LikedByView)
		require.EqualValues(t, 1, feed[0].LikeCount)

		anonymous, err := e.Feed(t.Context(), "")
		require.NoError(t, err)
		require.False(t, anonymous[0].LikedByView)
	})

	t.Run("suggested users excludes self and followed", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		s.users["carol"] = core.User{ID: "carol", Username: "carol"}
		e, _ := newEngine(s)

		_, err := e.ToggleFollow(t.Context(), "bob", "alice")
		require.NoError(t, err)

		suggested, err := e.SuggestedUsers(t.Context(), "bob")
		require.NoError(t, err)
		require.Equal(t, []string{"carol"}, lo.Map(suggested, func(u core.User, _ int) string { return u.ID }))

		anonymous, err := e.SuggestedUsers(t.Context(), "")
		require.NoError(t, err)
		require.Empty(t, anonymous)
	})

	t.Run("notifications list and mark read", func(t *testing.T) {
		t.Parallel()

		s := newState()
		seed(s)
		e, _ := newEngine(s)

		_, err := e.ToggleLike(t.Context(), "bob", "p1")
		require.NoError(t, err)

		list, err := e.Notifications(t.Context(), "alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.False(t, list[0].Read)

		require.NoError(t, e.MarkNotificationsRead(t.Context(), "alice", []string{list[0].ID}))

		list, err = e.Notifications(t.Context(), "alice")
		require.NoError(t, err)
		require.True(t, list[0].Read)

		// Another user cannot mark alice's notifications read.
		require.NoError(t, e.MarkNotificationsRead(t.Context(), "bob", []string{list[0].ID}))
		list, _ = e.Notifications(t.Context(), "alice")
		require.True(t, list[0].Read)

		anonymous, err := e.Notifications(t.Context(), "")
		require.NoError(t, err)
		require.Empty(t, anonymous)
	})
}
