// Package models holds the read-only catalog reference data.
package models

import (
	id "almanah/pkg/domain"
)

// Event groups templates (a festival, a season, a tour stop).
type Event struct {
	ID          id.EventID `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Year        int        `json:"year"`
	Description string     `json:"description"`
}

// Template is the abstract card design a printed card is an instance of.
type Template struct {
	ID          id.TemplateID `json:"id"`
	EventID     id.EventID    `json:"eventId"`
	Ordinal     int           `json:"ordinal"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoLink   string        `json:"videoLink,omitempty"`
	ImageURLs   []string      `json:"imageUrls"`
	Form        string        `json:"form,omitempty"`
}

// Window bounds a listing. Limit 0 means no limit.
type Window struct {
	Offset int
	Limit  int
}
