package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"club-hours/internal/records"
	"club-hours/internal/workhours"
)

// fakeRecords is an in-memory stand-in for the records client.
type fakeRecords struct {
	mu      sync.Mutex
	members []workhours.Member
	hours   map[string]*records.WorkHour
	nextID  int
	err     error
}

func newFakeRecords(members ...workhours.Member) *fakeRecords {
	return &fakeRecords{members: members, hours: map[string]*records.WorkHour{}}
}

func (f *fakeRecords) MemberByID(_ context.Context, id string) (*workhours.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.members {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeRecords) MembersByEmail(_ context.Context, email string) ([]workhours.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []workhours.Member
	for _, m := range f.members {
		if strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRecords) MemberByEmail(ctx context.Context, email string) (*workhours.Member, error) {
	list, err := f.MembersByEmail(ctx, email)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (f *fakeRecords) WorkHoursForMember(_ context.Context, memberID string, year int) ([]workhours.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []workhours.Entry
	for _, wh := range f.hours {
		if wh.MemberID == memberID && (year == 0 || strings.HasPrefix(wh.Date, fmt.Sprintf("%d-", year))) {
			out = append(out, wh.Entry)
		}
	}
	return out, nil
}

func (f *fakeRecords) WorkHourByID(_ context.Context, id string) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	wh, ok := f.hours[id]
	if !ok {
		return nil, nil
	}
	cp := *wh
	return &cp, nil
}

func (f *fakeRecords) CreateWorkHour(_ context.Context, v workhours.Validated, owner workhours.Member) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	wh := &records.WorkHour{
		Entry:     workhours.Entry{ID: fmt.Sprintf("w%d", f.nextID), MemberID: owner.ID, Date: v.Date, Description: v.Description, Hours: v.Hours},
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
	}
	f.hours[wh.ID] = wh
	return wh, nil
}

func (f *fakeRecords) UpdateWorkHour(_ context.Context, id string, v workhours.Validated, owner workhours.Member) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wh := f.hours[id]
	wh.Date, wh.Description, wh.Hours = v.Date, v.Description, v.Hours
	return wh, nil
}

func (f *fakeRecords) DeleteWorkHour(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hours, id)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, token, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+token+"|"+userID)
	return nil
}
