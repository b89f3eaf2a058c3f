package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"socially/internal/api"
	"socially/internal/cmd/flags"
	"socially/internal/core"
	"socially/internal/engine"
	"socially/internal/feedevents"
	"socially/internal/identity"
	"socially/internal/metrics"
	"socially/internal/persistence"
	"socially/internal/persistence/comments"
	"socially/internal/persistence/follows"
	"socially/internal/persistence/likes"
	"socially/internal/persistence/notifications"
	"socially/internal/persistence/posts"
	"socially/internal/persistence/users"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "Run the API server with the interaction engine",
	Flags: []cli.Flag{
		flags.DatabaseURL,
		flags.NATSUrl,
		flags.NATSInit,
		flags.ListenAddr,
		flags.MetricsAddr,
		flags.ProviderURL,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide[core.DB](&persistence.DB{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.PostRepository](&posts.Repository{}),
			pal.Provide[core.CommentRepository](&comments.Repository{}),
			pal.Provide[core.LikeRepository](&likes.Repository{}),
			pal.Provide[core.FollowRepository](&follows.Repository{}),
			pal.Provide[core.NotificationRepository](&notifications.Repository{}),
			pal.Provide[core.IdentityProvider](&identity.Provider{}),
			pal.Provide[core.IdentityResolver](&identity.Resolver{}),
			pal.Provide[core.FeedPublisher](&feedevents.Publisher{}),
			pal.Provide[core.Engine](&engine.Engine{}),
			pal.Provide(&api.Server{}),
			pal.Provide(&metrics.Server{}),
			pal.Provide(&metrics.Collector{}),
		)
	},
}
