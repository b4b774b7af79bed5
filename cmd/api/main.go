package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fashionsmith/fashionsmith-api/db/migrations"
	"github.com/fashionsmith/fashionsmith-api/internal/auth"
	"github.com/fashionsmith/fashionsmith-api/internal/config"
	"github.com/fashionsmith/fashionsmith-api/internal/dashboard"
	"github.com/fashionsmith/fashionsmith-api/internal/measurement"
	"github.com/fashionsmith/fashionsmith-api/internal/notification"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/payment"
	"github.com/fashionsmith/fashionsmith-api/internal/product"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
	"github.com/fashionsmith/fashionsmith-api/internal/user"

	_ "github.com/fashionsmith/fashionsmith-api/docs"
)

// @title FashionSmith API
// @version 1.0
// @description Storefront and back-office API for the FashionSmith custom tailoring service.
// @BasePath /api
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.New(os.Stdout).With().Timestamp().Logger())

	cfg := config.Load()
	ctx := context.Background()

	if err := runMigrations(cfg.PostgresDSN); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	producer := stream.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTTL)
	refresh := auth.NewRefreshStore(rdb, cfg.RefreshTTL)

	userRepo := user.NewPGRepo(pool)
	users := user.NewService(userRepo, tokens, refresh)

	gateway := payment.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	sessions := payment.NewRedisSessions(rdb, cfg.CheckoutTTL)
	orderRepo := order.NewPGRepo(pool)
	payments := payment.NewService(orderRepo, gateway, sessions, producer,
		payment.NewPGEventLog(pool), cfg.PaystackSecretKey)

	d := deps{
		users:         users,
		userRepo:      userRepo,
		measurements:  measurement.NewPGRepo(pool),
		products:      product.NewPGRepo(pool),
		orders:        orderRepo,
		payments:      payments,
		notifications: notification.NewPGRepo(pool),
		dash:          dashboard.NewPGRepo(pool),
		tokens:        tokens,
		events:        producer,
		frontendURL:   cfg.FrontendBaseURL,
	}

	r := newRouter(d)
	log.Info().Str("addr", cfg.HTTPAddr).Msg("fashionsmith-api listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
