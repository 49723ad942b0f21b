package service

import (
	"context"
	"fmt"
	"time"

	"club-hours/internal/logger"
	"club-hours/internal/records"
	"club-hours/internal/workhours"
)

// WorkHourRepo is the records client seen from the work-hour endpoints.
type WorkHourRepo interface {
	workhours.EntryLookup
	MemberByID(ctx context.Context, id string) (*workhours.Member, error)
	WorkHourByID(ctx context.Context, id string) (*records.WorkHour, error)
	CreateWorkHour(ctx context.Context, v workhours.Validated, owner workhours.Member) (*records.WorkHour, error)
	UpdateWorkHour(ctx context.Context, id string, v workhours.Validated, owner workhours.Member) (*records.WorkHour, error)
	DeleteWorkHour(ctx context.Context, id string) error
}

// Saved is the outcome of a create or update.
type Saved struct {
	ID    string
	Owner workhours.Member
	Entry workhours.Validated
}

// WorkHourService lets a member manage their own entries.
type WorkHourService struct {
	repo WorkHourRepo
	loc  *time.Location
	now  func() time.Time
}

func NewWorkHourService(repo WorkHourRepo, loc *time.Location) *WorkHourService {
	if loc == nil {
		loc = time.UTC
	}
	return &WorkHourService{repo: repo, loc: loc, now: time.Now}
}

// Today is the current date in the club's timezone.
func (s *WorkHourService) Today() time.Time {
	return s.now().In(s.loc)
}

// Get returns entry id when memberID owns it. Foreign entries look missing.
func (s *WorkHourService) Get(ctx context.Context, memberID, id string) (*records.WorkHour, error) {
	wh, err := s.repo.WorkHourByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.MemberID != memberID {
		return nil, fmt.Errorf("work hour %s: %w", id, workhours.ErrNotFound)
	}
	return wh, nil
}

func (s *WorkHourService) Create(ctx context.Context, memberID string, sub workhours.Submission) (*Saved, error) {
	owner, err := s.owner(ctx, memberID)
	if err != nil {
		return nil, err
	}
	v, err := workhours.ValidateSubmission(ctx, s.repo, memberID, sub, s.Today(), "")
	if err != nil {
		return nil, err
	}
	wh, err := s.repo.CreateWorkHour(ctx, v, *owner)
	if err != nil {
		return nil, err
	}
	logger.Info("workhour.created", "member", memberID, "id", wh.ID, "date", v.Date, "hours", v.Hours)
	return &Saved{ID: wh.ID, Owner: *owner, Entry: v}, nil
}

func (s *WorkHourService) Update(ctx context.Context, memberID, id string, sub workhours.Submission) (*Saved, error) {
	if _, err := s.Get(ctx, memberID, id); err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, memberID)
	if err != nil {
		return nil, err
	}
	v, err := workhours.ValidateSubmission(ctx, s.repo, memberID, sub, s.Today(), id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.UpdateWorkHour(ctx, id, v, *owner); err != nil {
		return nil, err
	}
	logger.Info("workhour.updated", "member", memberID, "id", id, "date", v.Date)
	return &Saved{ID: id, Owner: *owner, Entry: v}, nil
}

func (s *WorkHourService) Delete(ctx context.Context, memberID, id string) error {
	if _, err := s.Get(ctx, memberID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteWorkHour(ctx, id); err != nil {
		return err
	}
	logger.Info("workhour.deleted", "member", memberID, "id", id)
	return nil
}

func (s *WorkHourService) owner(ctx context.Context, memberID string) (*workhours.Member, error) {
	m, err := s.repo.MemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("member %s: %w", memberID, workhours.ErrNotFound)
	}
	return m, nil
}
