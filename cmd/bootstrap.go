package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/song-service/config"
	"github.com/annazecevic/song-service/logger"
	"github.com/annazecevic/song-service/repository"
	"github.com/annazecevic/song-service/seed"
	"github.com/annazecevic/song-service/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// app is the process-wide service context: one MongoDB client and the song
// service built on top of it.
type app struct {
	client *mongo.Client
	svc    service.SongService
}

// bootstrap connects to MongoDB, loads the seed file and replaces the
// collection before anything is served.
func bootstrap(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		logger.Error(logger.EventServiceStartup, err.Error(), nil)
		return nil, err
	}

	songs, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error(logger.EventServiceStartup, "Failed to load seed file", logger.Fields(
			"seed_file", cfg.SeedFile,
			"error", err.Error(),
		))
		return nil, err
	}

	uri := cfg.MongoURI()
	logger.Info(logger.EventDBConnection, "Connecting to MongoDB", logger.Fields("uri", logger.RedactURI(uri)))

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error(logger.EventDBError, "Failed to connect to MongoDB", logger.Fields("error", err.Error()))
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	a := &app{client: client}
	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Error(logger.EventDBError, "Failed to ping MongoDB", logger.Fields("error", err.Error()))
		a.close()
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", logger.Fields("database", cfg.MongoDatabase))

	repo := repository.NewSongRepository(client.Database(cfg.MongoDatabase))
	a.svc = service.NewSongService(repo, songs)

	if err := a.svc.Reseed(ctx); err != nil {
		logger.Error(logger.EventDBError, "Failed to reseed songs collection", logger.Fields("error", err.Error()))
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		logger.Error(logger.EventDBError, "Error disconnecting from MongoDB", logger.Fields("error", err.Error()))
	}
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	a, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	logger.Info(logger.EventSeedLoaded, "Seed complete", logger.Fields("count", a.svc.SeedCount()))
	return nil
}
