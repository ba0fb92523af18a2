package maintenance

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StartSearchHistoryRetention runs a daily job at localTime ("HH:MM") in
// tzName that drops search_queries rows older than keepDays.
// Call once at startup: go maintenance.StartSearchHistoryRetention(ctx, db, log, 90, "03:00", "America/Sao_Paulo")
func StartSearchHistoryRetention(ctx context.Context, db *sql.DB, log *zap.Logger, keepDays int, localTime string, tzName string) {
	if keepDays <= 0 {
		keepDays = 90
	}
	go func() {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.Local
		}
		h, m := 3, 0
		if parts := strings.Split(localTime, ":"); len(parts) == 2 {
			if v, err := strconv.Atoi(parts[0]); err == nil {
				h = v
			}
			if v, err := strconv.Atoi(parts[1]); err == nil {
				m = v
			}
		}

		runOnce := func(ctx context.Context) {
			const q = `DELETE FROM search_queries WHERE created_at < now() - ($1 * interval '1 day')`
			res, err := db.ExecContext(ctx, q, keepDays)
			if err != nil {
				log.Warn("search history retention failed", zap.Error(err))
				return
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				log.Info("search history pruned",
					zap.Int64("rows", n), zap.Int("keep_days", keepDays))
			}
		}

		for {
			now := time.Now().In(loc)
			next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
			if !next.After(now) {
				next = next.Add(24 * time.Hour)
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				runOnce(ctx)
			}
		}
	}()
}
