package history

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

// ListFor returns the actor's most recent searches, newest first.
// Authenticated callers see their own rows; anonymous callers see rows tied
// to their session token; an anonymous caller without a token sees nothing.
func ListFor(ctx context.Context, db *sql.DB, actor models.Actor, limit int) ([]models.SearchQuery, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var (
		where string
		arg   any
	)
	switch {
	case actor.UserID != "":
		where, arg = "user_id = $1", actor.UserID
	case actor.SessionKey != "":
		where, arg = "user_id IS NULL AND session_key = $1", actor.SessionKey
	default:
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id, ''), session_key, q, params, created_at
		 FROM search_queries
		 WHERE `+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		arg, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SearchQuery
	for rows.Next() {
		var s models.SearchQuery
		var params []byte
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionKey, &s.Q, &params, &s.CreatedAt); err != nil {
			return nil, err
		}
		if len(params) > 0 {
			_ = json.Unmarshal(params, &s.Params)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
