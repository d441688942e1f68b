package repository

import (
	"context"
)

// DB checks that the store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}
