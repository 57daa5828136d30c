package dto

import "github.com/annazecevic/song-service/domain"

type HealthResponse struct {
	Status string `json:"status"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type SongsResponse struct {
	Songs []domain.Song `json:"songs"`
}

type InsertedResponse struct {
	InsertedID string `json:"inserted id"`
}
