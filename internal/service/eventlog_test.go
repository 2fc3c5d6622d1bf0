package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coffee_machine/internal/models"
)

// eventRepoStub satisfies repository.EventRepo and records the last query.
type eventRepoStub struct {
	resp     []models.BrewEvent
	err      error
	appended []models.BrewEvent

	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (s *eventRepoStub) Append(ctx context.Context, e models.BrewEvent) error {
	s.appended = append(s.appended, e)
	return s.err
}

func (s *eventRepoStub) List(ctx context.Context, from, to time.Time, typ string) ([]models.BrewEvent, error) {
	s.lastFrom = from
	s.lastTo = to
	s.lastType = typ
	return s.resp, s.err
}

func TestEventLogService_List_NormalizesFilter(t *testing.T) {
	t.Parallel()

	locTokyo, _ := time.LoadLocation("Asia/Tokyo")
	from := time.Date(2026, 8, 1, 9, 0, 0, 0, locTokyo)
	to := time.Date(2026, 8, 31, 9, 0, 0, 0, locTokyo)

	repo := &eventRepoStub{resp: []models.BrewEvent{{EventID: "e1"}}}
	svc := NewEventLogService(repo)

	got, err := svc.List(context.Background(), LogFilter{
		From: from,
		To:   to,
		Type: "  brew_completed ",
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected passthrough of repo result, got %d events", len(got))
	}
	if repo.lastFrom.Location() != time.UTC || repo.lastTo.Location() != time.UTC {
		t.Errorf("times must be normalized to UTC")
	}
	if !repo.lastFrom.Equal(from) || !repo.lastTo.Equal(to) {
		t.Errorf("normalization must preserve the instant")
	}
	if repo.lastType != "BREW_COMPLETED" {
		t.Errorf("type must be trimmed and uppercased, got %q", repo.lastType)
	}
}

func TestEventLogService_List_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	repo := &eventRepoStub{}
	svc := NewEventLogService(repo)

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.List(context.Background(), LogFilter{From: from, To: to}); !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange, got %v", err)
	}
	if !repo.lastFrom.IsZero() && !repo.lastTo.IsZero() {
		t.Fatalf("repo must not be queried on invalid range")
	}
}

func TestEventLogService_List_ZeroBoundsPassThrough(t *testing.T) {
	t.Parallel()

	repo := &eventRepoStub{}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{}); err != nil {
		t.Fatalf("open-ended filter must be valid, got %v", err)
	}
	if !repo.lastFrom.IsZero() || !repo.lastTo.IsZero() || repo.lastType != "" {
		t.Fatalf("zero bounds must be preserved: %v %v %q", repo.lastFrom, repo.lastTo, repo.lastType)
	}
}
