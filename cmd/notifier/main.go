// The notifier consumes domain events from Kafka and materializes the
// notification rows the API serves. Running it separately keeps the API's
// request path free of fan-out work.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fashionsmith/fashionsmith-api/internal/config"
	"github.com/fashionsmith/fashionsmith-api/internal/notification"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.New(os.Stdout).With().Timestamp().Logger())

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	repo := notification.NewPGRepo(pool)

	reader := stream.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer reader.Close()

	log.Info().Str("topic", cfg.KafkaTopic).Str("group", cfg.KafkaGroupID).Msg("notifier consuming")
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("notifier shutting down")
				return
			}
			log.Error().Err(err).Msg("read message")
			continue
		}
		var ev stream.Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Error().Err(err).Msg("bad event payload, skipping")
			continue
		}
		n, ok := notification.FromEvent(ev)
		if !ok {
			continue
		}
		if err := repo.Create(ctx, n); err != nil {
			log.Error().Err(err).Str("type", ev.Type).Str("user_id", ev.UserID).Msg("store notification")
			continue
		}
		log.Info().Str("type", ev.Type).Str("user_id", ev.UserID).Msg("notification stored")
	}
}
