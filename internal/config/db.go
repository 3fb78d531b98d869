package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	connectRetries       = 5
	connectRetryInterval = 5 * time.Second
)

// ConnectDB establishes a connection to the PostgreSQL database, retrying
// while the server comes up.
func ConnectDB(ctx context.Context, dsn string, logger *logrus.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 0; i < connectRetries; i++ {
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("Successfully connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"attempt": i + 1,
			"max":     connectRetries,
		}).Warnf("Failed to connect to database, retrying in %v", connectRetryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", connectRetries, err)
}
