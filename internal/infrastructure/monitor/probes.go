package monitor

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sizer is satisfied by the activity journal.
type Sizer interface {
	Size() (int, error)
}

func PostgresProbe(pool Pinger) Probe {
	return Probe{
		Name:     "postgresql",
		Required: true,
		Timeout:  3 * time.Second,
		Check: func(ctx context.Context) (interface{}, error) {
			return nil, pool.Ping(ctx)
		},
	}
}

func RedisProbe(client *redislib.Client) Probe {
	return Probe{
		Name:     "redis",
		Required: false,
		Timeout:  2 * time.Second,
		Check: func(ctx context.Context) (interface{}, error) {
			return nil, client.Ping(ctx).Err()
		},
	}
}

func JournalProbe(journal Sizer) Probe {
	return Probe{
		Name:     "journal",
		Required: false,
		Check: func(context.Context) (interface{}, error) {
			size, err := journal.Size()
			return map[string]int{"size": size}, err
		},
	}
}
