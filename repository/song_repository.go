package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annazecevic/song-service/domain"
	"github.com/annazecevic/song-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "songs"

type SongRepository interface {
	// Reseed drops the collection and inserts songs in its place.
	Reseed(ctx context.Context, songs []domain.Song) error

	FindAll(ctx context.Context) ([]domain.Song, error)
	// FindByID returns mongo.ErrNoDocuments when no song has the id.
	FindByID(ctx context.Context, id int64) (domain.Song, error)
	Insert(ctx context.Context, song domain.Song) (string, error)
	Update(ctx context.Context, id int64, fields domain.Song) (*UpdateResult, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

type songRepository struct {
	collection *mongo.Collection
}

func NewSongRepository(db *mongo.Database) SongRepository {
	return &songRepository{collection: db.Collection(CollectionName)}
}

func (r *songRepository) Reseed(ctx context.Context, songs []domain.Song) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := r.collection.Drop(ctx); err != nil {
		return storageError("drop songs collection", err)
	}

	if len(songs) > 0 {
		docs := make([]interface{}, len(songs))
		for i, s := range songs {
			docs[i] = s
		}
		if _, err := r.collection.InsertMany(ctx, docs); err != nil {
			return storageError("insert seed songs", err)
		}
	}

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: domain.IDField, Value: 1}},
		Options: options.Index().SetUnique(false),
	})
	if err != nil {
		logger.Warn(logger.EventDBError, "Failed to create id index for songs", logger.Fields("error", err.Error()))
	}
	return nil
}

func (r *songRepository) FindAll(ctx context.Context) ([]domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, storageError("fetch songs", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Song, 0)
	for cur.Next(ctx) {
		var s domain.Song
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode song: %w", err)
		}
		out = append(out, s)
	}
	if err := cur.Err(); err != nil {
		return nil, storageError("iterate songs", err)
	}
	return out, nil
}

func (r *songRepository) FindByID(ctx context.Context, id int64) (domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s domain.Song
	err := r.collection.FindOne(ctx, bson.M{domain.IDField: id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, storageError("fetch song", err)
	}
	return s, nil
}

func (r *songRepository) Insert(ctx context.Context, song domain.Song) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.InsertOne(ctx, song)
	if err != nil {
		return "", storageError("create song", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (r *songRepository) Update(ctx context.Context, id int64, fields domain.Song) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{domain.IDField: id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return nil, storageError("update song", err)
	}
	return &UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (r *songRepository) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{domain.IDField: id})
	if err != nil {
		return 0, storageError("delete song", err)
	}
	return res.DeletedCount, nil
}

// storageError separates connectivity failures from everything else the driver reports.
func storageError(op string, err error) error {
	logger.Error(logger.EventDBError, "Failed to "+op, logger.Fields("error", err.Error()))
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return domain.Unavailable(fmt.Errorf("failed to %s: %w", op, err))
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
