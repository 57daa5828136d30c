package repository

import (
	"context"
	"testing"

	"github.com/annazecevic/song-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "songs.songs"

func TestSongRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reseed drops inserts and indexes", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.Reseed(context.Background(), []domain.Song{
			{"id": int64(1), "title": "A"},
			{"id": int64(2), "title": "B"},
		})

		require.NoError(mt, err)
	})

	mt.Run("reseed with empty seed skips insert", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, repo.Reseed(context.Background(), nil))
	})

	mt.Run("find all", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "id", Value: 1}, {Key: "title", Value: "A"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "id", Value: 2}, {Key: "title", Value: "B"}},
		))

		songs, err := repo.FindAll(context.Background())

		require.NoError(mt, err)
		require.Len(mt, songs, 2)
		assert.Equal(mt, oid, songs[0]["_id"])
		assert.Equal(mt, "B", songs[1]["title"])
	})

	mt.Run("find all on empty collection returns empty slice", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		songs, err := repo.FindAll(context.Background())

		require.NoError(mt, err)
		assert.NotNil(mt, songs)
		assert.Empty(mt, songs)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: 7}, {Key: "title", Value: "Seven"}},
		))

		song, err := repo.FindByID(context.Background(), 7)

		require.NoError(mt, err)
		id, err := song.ID()
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), id)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), 99)

		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("find by id command error", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad query",
		}))

		_, err := repo.FindByID(context.Background(), 1)

		require.Error(mt, err)
		assert.NotErrorIs(mt, err, mongo.ErrNoDocuments)
		assert.NotErrorIs(mt, err, domain.ErrStorageUnavailable)
		assert.Contains(mt, err.Error(), "bad query")
	})

	mt.Run("insert returns object id hex", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Insert(context.Background(), domain.Song{"id": int64(3), "title": "C"})

		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)
	})

	mt.Run("update reports matched and modified", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		res, err := repo.Update(context.Background(), 1, domain.Song{"title": "same"})

		require.NoError(mt, err)
		assert.Equal(mt, int64(1), res.MatchedCount)
		assert.Equal(mt, int64(0), res.ModifiedCount)
	})

	mt.Run("delete reports deleted count", func(mt *mtest.T) {
		repo := NewSongRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		n, err := repo.Delete(context.Background(), 42)

		require.NoError(mt, err)
		assert.Equal(mt, int64(0), n)
	})
}

func TestStorageErrorClassifiesTimeouts(t *testing.T) {
	err := storageError("fetch songs", context.DeadlineExceeded)

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
