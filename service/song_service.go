package service

import (
	"context"
	"errors"

	"github.com/annazecevic/song-service/domain"
	"github.com/annazecevic/song-service/logger"
	"github.com/annazecevic/song-service/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

type SongService interface {
	// Reseed replaces the collection with the seed snapshot.
	Reseed(ctx context.Context) error
	// SeedCount is the size of the seed snapshot, not of the live collection.
	SeedCount() int

	ListSongs(ctx context.Context) ([]domain.Song, error)
	GetSong(ctx context.Context, id int64) (domain.Song, error)
	CreateSong(ctx context.Context, song domain.Song) (string, error)
	// UpdateSong merges fields into the song. The bool is false when nothing changed.
	UpdateSong(ctx context.Context, id int64, fields domain.Song) (domain.Song, bool, error)
	DeleteSong(ctx context.Context, id int64) error
}

type songService struct {
	repo repository.SongRepository
	seed []domain.Song
}

func NewSongService(repo repository.SongRepository, seed []domain.Song) SongService {
	return &songService{repo: repo, seed: seed}
}

func (s *songService) Reseed(ctx context.Context) error {
	if err := s.repo.Reseed(ctx, s.seed); err != nil {
		return err
	}
	logger.Info(logger.EventSeedLoaded, "Songs collection replaced with seed data", logger.Fields("count", len(s.seed)))
	return nil
}

func (s *songService) SeedCount() int {
	return len(s.seed)
}

func (s *songService) ListSongs(ctx context.Context) ([]domain.Song, error) {
	return s.repo.FindAll(ctx)
}

func (s *songService) GetSong(ctx context.Context, id int64) (domain.Song, error) {
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("song with id %d not found", id)
		}
		return nil, err
	}
	return song, nil
}

func (s *songService) CreateSong(ctx context.Context, song domain.Song) (string, error) {
	id, err := song.ID()
	if err != nil {
		return "", err
	}

	_, err = s.repo.FindByID(ctx, id)
	if err == nil {
		return "", domain.Duplicate("song with id %d already present", id)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	insertedID, err := s.repo.Insert(ctx, song)
	if err != nil {
		return "", err
	}

	logger.Info(logger.EventGeneral, "Song created", logger.Fields("id", id, "inserted_id", insertedID))
	return insertedID, nil
}

func (s *songService) UpdateSong(ctx context.Context, id int64, fields domain.Song) (domain.Song, bool, error) {
	lookupID := id
	if fields.HasID() {
		newID, err := fields.ID()
		if err != nil {
			return nil, false, err
		}
		lookupID = newID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, domain.NotFound("song not found")
		}
		return nil, false, err
	}

	if len(fields) == 0 {
		return nil, false, nil
	}

	res, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, false, err
	}
	if res.MatchedCount == 0 {
		return nil, false, domain.NotFound("song not found")
	}
	if res.ModifiedCount == 0 {
		return nil, false, nil
	}

	updated, err := s.repo.FindByID(ctx, lookupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, domain.NotFound("song not found")
		}
		return nil, false, err
	}

	logger.Info(logger.EventGeneral, "Song updated", logger.Fields("id", id))
	return updated, true, nil
}

func (s *songService) DeleteSong(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.NotFound("song not found")
	}
	logger.Info(logger.EventGeneral, "Song deleted", logger.Fields("id", id))
	return nil
}
