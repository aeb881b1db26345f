package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartStaleStorageCleaner drops every partition whose newest write is older
// than retention, checking once per interval until ctx is done. A
// non-positive retention or interval leaves storage untouched.
func StartStaleStorageCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 || retention <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM local_storage
                     WHERE partition IN (
                         SELECT partition FROM local_storage
                          GROUP BY partition
                         HAVING MAX(updated_at) < $1
                     )
                `, cutoff)
				if err != nil {
					log.Error("failed to clean stale storage partitions", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned stale storage partitions", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
