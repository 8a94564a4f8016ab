package repository

import (
	"context"
	"log"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/ceoos/pkg/cleanup"
)

var (
	pools   = map[string]*pgxpool.Pool{}
	poolsMu sync.Mutex
)

// sharedPool returns one pool per connection string, so the repositories of
// one database share connections. The pool is closed by the cleanup jobs.
func sharedPool(cfg DBConfig, owner string) *pgxpool.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	connString := cfg.ConnString()
	if pool, ok := pools[connString]; ok {
		return pool
	}
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		log.Fatal("creating connection for " + owner + " error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for " + owner + ": " + err.Error())
	}
	pools[connString] = pool
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			poolsMu.Lock()
			delete(pools, connString)
			poolsMu.Unlock()
			pool.Close()
			return nil
		},
	})
	return pool
}
