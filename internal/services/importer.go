package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"conferenceplanner/internal/domain"
)

// Column limits the imported Sessionize text is cut to.
const (
	maxNameLength    = 200
	maxTextLength    = 4000
	maxWebsiteLength = 1000
)

type importService struct {
	fetcher  domain.SessionizeFetcher
	tracks   domain.TrackRepository
	speakers domain.SpeakerRepository
	sessions domain.SessionRepository
	uow      domain.UnitOfWork
	logger   *slog.Logger
}

// NewImportService creates an ImportService. The whole import is committed once.
func NewImportService(
	fetcher domain.SessionizeFetcher,
	tracks domain.TrackRepository,
	speakers domain.SpeakerRepository,
	sessions domain.SessionRepository,
	uow domain.UnitOfWork,
	logger *slog.Logger,
) domain.ImportService {
	return &importService{
		fetcher:  fetcher,
		tracks:   tracks,
		speakers: speakers,
		sessions: sessions,
		uow:      uow,
		logger:   logger,
	}
}

// ImportSessionize creates tracks from rooms (reusing tracks of the same name),
// speakers, and sessions with their speaker links and schedule.
func (s *importService) ImportSessionize(ctx context.Context, sessionizeID string) (*domain.ImportSummary, error) {
	schedule, err := s.fetcher.Fetch(ctx, sessionizeID)
	if err != nil {
		return nil, fmt.Errorf("fetch sessionize schedule: %w", err)
	}
	summary := &domain.ImportSummary{}

	trackIDs, err := s.importRooms(ctx, schedule.Rooms, summary)
	if err != nil {
		return nil, err
	}

	speakerIDs := make(map[string]int, len(schedule.Speakers))
	for _, sp := range schedule.Speakers {
		speaker := domain.NewSpeaker(
			truncate(strings.TrimSpace(sp.FullName), maxNameLength),
			truncate(sp.Bio, maxTextLength),
			truncate(websiteOf(sp), maxWebsiteLength),
		)
		if speaker.Name == "" {
			continue
		}
		if err := s.speakers.Create(ctx, speaker); err != nil {
			return nil, fmt.Errorf("import speaker %s: %w", sp.ID, err)
		}
		speakerIDs[sp.ID] = speaker.ID
		summary.Speakers++
	}

	for _, ss := range schedule.Sessions {
		title := truncate(strings.TrimSpace(ss.Title), maxNameLength)
		if title == "" {
			title = fmt.Sprintf("Untitled session %s", ss.ID)
		}
		session := domain.NewSession(title, truncate(ss.Description, maxTextLength))
		if ss.StartsAt != nil && ss.EndsAt != nil && !ss.EndsAt.Before(*ss.StartsAt) {
			session.StartTime = ss.StartsAt
			session.EndTime = ss.EndsAt
		}
		if ss.RoomID != nil {
			if id, ok := trackIDs[*ss.RoomID]; ok {
				session.TrackID = &id
			}
		}

		var ids []int
		for _, ref := range ss.Speakers {
			if id, ok := speakerIDs[ref]; ok {
				ids = append(ids, id)
			}
		}
		if err := s.sessions.Create(ctx, session, ids); err != nil {
			return nil, fmt.Errorf("import session %s: %w", ss.ID, err)
		}
		summary.Sessions++
	}

	if err := s.uow.Commit(ctx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "sessionize import committed",
		"sessionize_id", sessionizeID,
		"tracks", summary.Tracks,
		"speakers", summary.Speakers,
		"sessions", summary.Sessions,
	)
	return summary, nil
}

func (s *importService) importRooms(ctx context.Context, rooms []domain.SessionizeRoom, summary *domain.ImportSummary) (map[int]int, error) {
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names = append(names, truncate(strings.TrimSpace(room.Name), maxNameLength))
	}
	existing, err := s.tracks.ListByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load existing tracks: %w", err)
	}
	byName := make(map[string]int, len(existing))
	for _, t := range existing {
		byName[t.Name] = t.ID
	}

	trackIDs := make(map[int]int, len(rooms))
	for i, room := range rooms {
		name := names[i]
		if name == "" {
			continue
		}
		if id, ok := byName[name]; ok {
			trackIDs[room.ID] = id
			continue
		}
		track := domain.NewTrack(name)
		if err := s.tracks.Create(ctx, track); err != nil {
			return nil, fmt.Errorf("import room %d: %w", room.ID, err)
		}
		byName[name] = track.ID
		trackIDs[room.ID] = track.ID
		summary.Tracks++
	}
	return trackIDs, nil
}

// websiteOf prefers the speaker's blog or company site over other links.
func websiteOf(sp domain.SessionizeSpeaker) string {
	for _, link := range sp.Links {
		switch link.LinkType {
		case "Blog", "Company_Website":
			return link.URL
		}
	}
	if len(sp.Links) > 0 {
		return sp.Links[0].URL
	}
	return ""
}
