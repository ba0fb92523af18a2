package books

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/lfarias-dev/biblioteca-api/internal/history/recorder"
	"github.com/lfarias-dev/biblioteca-api/internal/storage/s3"
)

type Handler struct {
	DB  *sql.DB
	RDB *redis.Client
	Rec *recorder.Recorder
	Arc *s3.Archiver
}

func NewHandler(db *sql.DB, rdb *redis.Client, rec *recorder.Recorder, arc *s3.Archiver) *Handler {
	return &Handler{
		DB:  db,
		RDB: rdb,
		Rec: rec,
		Arc: arc,
	}
}
