package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	mw "github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/api/router"
	"github.com/lfarias-dev/biblioteca-api/internal/history/recorder"
	"github.com/lfarias-dev/biblioteca-api/internal/maintenance"
	"github.com/lfarias-dev/biblioteca-api/internal/repository/sqlconnect"
	"github.com/lfarias-dev/biblioteca-api/internal/storage/s3"
	"github.com/lfarias-dev/biblioteca-api/internal/validate"
	"github.com/lfarias-dev/biblioteca-api/migrations"
	"github.com/lfarias-dev/biblioteca-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := validate.Env(); err != nil {
		log.Fatal("bad configuration", zap.Error(err))
	}

	db, err := sqlconnect.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose dialect", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     os.Getenv("REDIS_PASSWORD"),
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		log.Info("connected to redis", zap.String("addr", addr))
	} else {
		log.Info("redis not configured; rate limiting and facet cache disabled")
	}

	rec := recorder.New(db, log, 256, 1)
	defer rec.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retentionDays := 90
	if v := os.Getenv("HISTORY_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			retentionDays = n
		}
	}
	maintenance.StartSearchHistoryRetention(ctx, db, log, retentionDays, "03:00", "America/Sao_Paulo")

	arc, err := s3.NewArchiver(context.Background(), log)
	if err != nil {
		log.Fatal("archiver setup failed", zap.Error(err))
	}

	hppOptions := mw.HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			// Search / listing
			"q", "title", "author", "isbn", "disponivel", "categoria",
			"idioma", "ano_min", "ano_max", "ordenar", "mostrar", "page",
			"export", "suggest",

			// Loans
			"id", "book_id", "loan_id", "ids",
		},
	}

	chain := []utils.Middleware{
		mw.Cors(log),
		mw.RequestID,
		mw.Recovery(log),
		mw.ResponseTimeMiddleware,
		mw.HPP(hppOptions),
	}
	if rdb != nil {
		tb := mw.NewRedisTokenBucket(rdb, log, 5, 20, mw.PerIPKey("tb"))
		chain = append(chain, tb.Middleware)
	}
	chain = append(chain,
		mw.SecurityHeaders,
		mw.Compression,
		mw.BodySizeLimit,
		mw.EnsureSession,
		mw.OptionalAuth,
	)

	handler := utils.ApplyMiddleware(router.Router(db, rdb, rec, arc), chain...)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
