package models

import "time"

type Transcript struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	Provider        string    `json:"provider"`
	Language        string    `json:"language"`
	DurationSeconds float64   `json:"durationSeconds"`
	AudioKey        string    `json:"-"`
	AudioMime       string    `json:"audioMime,omitempty"`
	SizeBytes       int64     `json:"sizeBytes"`
	CreatedAt       time.Time `json:"createdAt"`
}
