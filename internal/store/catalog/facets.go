package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

// Facets backs the advanced-search form: every category plus the distinct
// non-empty languages present in the catalog.
type Facets struct {
	Categories []models.Category `json:"categories"`
	Languages  []string          `json:"languages"`
}

const (
	facetsKey = "catalog:facets"
	facetsTTL = 5 * time.Minute
	cacheTO   = 150 * time.Millisecond
)

// LoadFacets reads facets through a short-TTL redis cache. Cache failures
// fail open to the database; a nil client disables caching entirely.
func LoadFacets(ctx context.Context, db *sql.DB, rdb *redis.Client) (Facets, error) {
	if rdb != nil {
		cctx, cancel := context.WithTimeout(ctx, cacheTO)
		raw, err := rdb.Get(cctx, facetsKey).Bytes()
		cancel()
		if err == nil {
			var f Facets
			if json.Unmarshal(raw, &f) == nil {
				return f, nil
			}
		}
	}

	var f Facets
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return Facets{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return Facets{}, err
		}
		f.Categories = append(f.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return Facets{}, err
	}

	langs, err := db.QueryContext(ctx,
		`SELECT DISTINCT language FROM books WHERE language <> '' ORDER BY language`)
	if err != nil {
		return Facets{}, err
	}
	defer langs.Close()
	for langs.Next() {
		var l string
		if err := langs.Scan(&l); err != nil {
			return Facets{}, err
		}
		f.Languages = append(f.Languages, l)
	}
	if err := langs.Err(); err != nil {
		return Facets{}, err
	}

	if rdb != nil {
		if raw, err := json.Marshal(f); err == nil {
			cctx, cancel := context.WithTimeout(context.Background(), cacheTO)
			_ = rdb.SetEx(cctx, facetsKey, raw, facetsTTL).Err()
			cancel()
		}
	}
	return f, nil
}
