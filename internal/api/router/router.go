package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/lfarias-dev/biblioteca-api/internal/api/handlers"
	"github.com/lfarias-dev/biblioteca-api/internal/api/handlers/books"
	"github.com/lfarias-dev/biblioteca-api/internal/api/handlers/loans"
	"github.com/lfarias-dev/biblioteca-api/internal/api/handlers/search"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/history/recorder"
	"github.com/lfarias-dev/biblioteca-api/internal/storage/s3"
	storeloans "github.com/lfarias-dev/biblioteca-api/internal/store/loans"
)

func Router(db *sql.DB, rdb *redis.Client, rec *recorder.Recorder, arc *s3.Archiver) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", handlers.RootHandler)

	// Keep legacy /books -> /books/
	mux.HandleFunc("GET /books", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/books/", http.StatusMovedPermanently)
	})

	bh := books.NewHandler(db, rdb, rec, arc)
	mux.Handle("GET /books/", bh.List())

	lh := loans.NewHandler(storeloans.New(db))
	mux.Handle("POST /books/{id}/borrow", lh.Borrow())
	mux.Handle("POST /loans/{id}/return", lh.Return())
	mux.Handle("GET /loans/", lh.Mine())

	// Staff only
	mux.Handle("GET /admin/books/{id}/borrowers", middlewares.RequireStaff(lh.Borrowers()))
	mux.Handle("GET /admin/loans/overdue", middlewares.RequireStaff(lh.Overdue()))
	mux.Handle("POST /admin/loans/return", middlewares.RequireStaff(lh.BulkReturn()))

	sh := search.NewHandler(db, rdb, arc)
	mux.Handle("GET /search/facets", sh.Facets())
	mux.Handle("GET /search/history", sh.History())

	return mux
}
