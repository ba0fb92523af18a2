package search

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/lfarias-dev/biblioteca-api/internal/storage/s3"
)

type Handler struct {
	DB  *sql.DB
	RDB *redis.Client
	Arc *s3.Archiver
}

func NewHandler(db *sql.DB, rdb *redis.Client, arc *s3.Archiver) *Handler {
	return &Handler{DB: db, RDB: rdb, Arc: arc}
}
