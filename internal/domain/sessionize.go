package domain

import (
	"context"
	"time"
)

// SessionizeFetcher fetches a published schedule from Sessionize (or a test double).
type SessionizeFetcher interface {
	Fetch(ctx context.Context, sessionizeID string) (*SessionizeSchedule, error)
}

// SessionizeSchedule is the Sessionize "All" view: flat lists joined by id.
type SessionizeSchedule struct {
	Sessions []SessionizeSession `json:"sessions"`
	Speakers []SessionizeSpeaker `json:"speakers"`
	Rooms    []SessionizeRoom    `json:"rooms"`
}

// SessionizeRoom is a room; rooms are imported as tracks.
type SessionizeRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SessionizeSession is a session; StartsAt and EndsAt are null for unscheduled sessions.
type SessionizeSession struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Speakers    []string   `json:"speakers"`
	RoomID      *int       `json:"roomId"`
}

// SessionizeSpeaker is a speaker referenced by SessionizeSession.Speakers.
type SessionizeSpeaker struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
	Links    []struct {
		URL      string `json:"url"`
		LinkType string `json:"linkType"`
	} `json:"links"`
}

// ImportSummary counts what an import created.
type ImportSummary struct {
	Tracks   int `json:"tracks"`
	Speakers int `json:"speakers"`
	Sessions int `json:"sessions"`
}

// ImportService imports a published Sessionize schedule into the store.
type ImportService interface {
	ImportSessionize(ctx context.Context, sessionizeID string) (*ImportSummary, error)
}
