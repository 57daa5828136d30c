// Package repositorytest provides an in-memory SongRepository for tests.
package repositorytest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/annazecevic/song-service/domain"
	"github.com/annazecevic/song-service/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryRepository mimics the MongoDB repository: ids are not unique, lookups
// return the first match and updates merge fields like $set.
type MemoryRepository struct {
	mu    sync.Mutex
	songs []domain.Song

	// Err, when set, is returned by every operation.
	Err error
}

var _ repository.SongRepository = (*MemoryRepository)(nil)

func NewMemoryRepository(songs ...domain.Song) *MemoryRepository {
	r := &MemoryRepository{}
	for _, s := range songs {
		r.songs = append(r.songs, withObjectID(s))
	}
	return r
}

// Len reports how many documents are stored.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.songs)
}

// CountID reports how many documents carry id.
func (r *MemoryRepository) CountID(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.songs {
		if sid, err := s.ID(); err == nil && sid == id {
			n++
		}
	}
	return n
}

func (r *MemoryRepository) Reseed(_ context.Context, songs []domain.Song) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.songs = nil
	for _, s := range songs {
		r.songs = append(r.songs, withObjectID(s))
	}
	return nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]domain.Song, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Song, 0, len(r.songs))
	for _, s := range r.songs {
		out = append(out, clone(s))
	}
	return out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (domain.Song, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return clone(r.songs[i]), nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *MemoryRepository) Insert(_ context.Context, song domain.Song) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := withObjectID(song)
	r.songs = append(r.songs, s)
	if oid, ok := s[domain.ObjectIDField].(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(s[domain.ObjectIDField]), nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, fields domain.Song) (*repository.UpdateResult, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return &repository.UpdateResult{}, nil
	}
	res := &repository.UpdateResult{MatchedCount: 1}
	for k, v := range fields {
		if old, ok := r.songs[i][k]; !ok || !reflect.DeepEqual(old, v) {
			r.songs[i][k] = v
			res.ModifiedCount = 1
		}
	}
	return res, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	r.songs = append(r.songs[:i], r.songs[i+1:]...)
	return 1, nil
}

func (r *MemoryRepository) indexOf(id int64) int {
	for i, s := range r.songs {
		if sid, err := s.ID(); err == nil && sid == id {
			return i
		}
	}
	return -1
}

func withObjectID(s domain.Song) domain.Song {
	c := clone(s)
	if _, ok := c[domain.ObjectIDField]; !ok {
		c[domain.ObjectIDField] = primitive.NewObjectID()
	}
	return c
}

func clone(s domain.Song) domain.Song {
	c := make(domain.Song, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
