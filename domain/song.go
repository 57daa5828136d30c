package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// IDField is the externally assigned integer key of a song.
	IDField = "id"
	// ObjectIDField is the identifier MongoDB assigns on insert.
	ObjectIDField = "_id"
)

// Song is a schema-less document. Only the integer id field is interpreted.
type Song bson.M

// ID returns the integer value of the song's id field.
func (s Song) ID() (int64, error) {
	v, ok := s[IDField]
	if !ok || v == nil {
		return 0, Invalid("song id is required")
	}
	return toInt64(v)
}

// HasID reports whether the document carries an id field at all.
func (s Song) HasID() bool {
	_, ok := s[IDField]
	return ok
}

// MarshalJSON renders the document as relaxed extended JSON, so ObjectIds,
// dates and other BSON types come out in plain JSON-safe form.
func (s Song) MarshalJSON() ([]byte, error) {
	return bson.MarshalExtJSON(bson.M(s), false, false)
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		// 1<<63 is exact in float64; MaxInt64 is not.
		if n == math.Trunc(n) && n >= -(1<<63) && n < (1<<63) {
			return int64(n), nil
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	return 0, Invalid(fmt.Sprintf("song id must be an integer, got %v", v))
}

// DecodeSong parses a single JSON object into a Song.
func DecodeSong(data []byte) (Song, error) {
	var raw interface{}
	if err := decodeJSON(data, &raw); err != nil {
		return nil, Invalid("Request body must be JSON")
	}
	obj, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, Invalid("Request body must be a JSON object")
	}
	return Song(obj), nil
}

// DecodeSongs parses a JSON array of objects, as found in the seed file.
func DecodeSongs(data []byte) ([]Song, error) {
	var raw []interface{}
	if err := decodeJSON(data, &raw); err != nil {
		return nil, fmt.Errorf("songs must be a JSON array: %w", err)
	}
	songs := make([]Song, 0, len(raw))
	for i, item := range raw {
		obj, ok := normalize(item).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("song at index %d is not a JSON object", i)
		}
		songs = append(songs, Song(obj))
	}
	return songs, nil
}

func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

// normalize turns json.Number into int64 when integral and float64 otherwise,
// so ids compare equal to the integers stored in MongoDB.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []interface{}:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
