package cli

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sellwise/funnel/pkg/adapters/file"
	redisadapter "github.com/sellwise/funnel/pkg/adapters/redis"
	"github.com/sellwise/funnel/pkg/session"
)

// SetupPersistence builds the conversation store and session manager. With a
// Redis URL it returns a Redis store plus a distributed locker; otherwise
// conversations land in local files under .funnel/conversations.
func SetupPersistence(redisURL string, logger *slog.Logger) (*session.Manager, error) {
	var managerOpts []session.Option
	if logger != nil {
		managerOpts = append(managerOpts, session.WithLogger(logger))
	}

	if redisURL == "" {
		store := file.New("")
		return session.NewManager(store, managerOpts...), nil
	}

	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)

	store := redisadapter.NewFromClient(client)
	locker := redisadapter.NewLocker(client, "funnel:lock:")
	managerOpts = append(managerOpts, session.WithLocker(locker))
	return session.NewManager(store, managerOpts...), nil
}

// ResetSession clears persisted data for the given conversation id.
func ResetSession(ctx context.Context, manager *session.Manager, id string) {
	if id == "" {
		return
	}
	_ = manager.Delete(ctx, id)
}
