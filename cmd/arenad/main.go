package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-logr/zerologr"
	"github.com/pokearena/backend/arena"
	"github.com/pokearena/backend/internal/gateway"
	"github.com/pokearena/backend/internal/ratingdb"
	"github.com/pokearena/backend/internal/rosterfs"
	"github.com/rs/zerolog"
)

type config struct {
	Addr         string `env:"ARENA_ADDR" envDefault:":8080"`
	MovesFile    string `env:"ARENA_MOVES_FILE" envDefault:"data/moves.json"`
	MovePoolFile string `env:"ARENA_MOVE_POOL_FILE" envDefault:"data/move-pool.json"`
	RosterDir    string `env:"ARENA_ROSTER_DIR" envDefault:"rosters"`
	RatingsDB    string `env:"ARENA_RATINGS_DB" envDefault:"ratings.db"`
	Debug        bool   `env:"ARENA_DEBUG" envDefault:"false"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("parse config")
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger().Level(level)

	zl := log.With().Logger()
	arena.SetInternalLogger(zerologr.New(&zl))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := arena.LoadCatalog(cfg.MovesFile, cfg.MovePoolFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load move catalog")
	}

	if err := catalog.Watch(ctx); err != nil {
		log.Fatal().Err(err).Msg("watch move catalog")
	}

	ratings, err := ratingdb.Open(cfg.RatingsDB)
	if err != nil {
		log.Fatal().Err(err).Msg("open ratings db")
	}
	defer ratings.Close()

	store := arena.NewStore()
	rosters := rosterfs.New(cfg.RosterDir, catalog)

	controller := arena.NewController(catalog, store, rosters, ratings, arena.NopBroadcaster{})

	gw := gateway.New(controller, func(ctx context.Context, playerID, username string) (arena.Identity, error) {
		return ratings.Rating(ctx, playerID)
	}, log)

	// the gateway is the broadcaster; it was needed to build the
	// controller, so swap the nop out now
	controller.SetBroadcaster(gw)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("arenad listening")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
