package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"club-hours/internal/records"
	"club-hours/internal/workhours"
)

// memoryRecords serves members and work hours from memory.
type memoryRecords struct {
	mu      sync.Mutex
	members []workhours.Member
	hours   map[string]*records.WorkHour
	nextID  int
}

func newMemoryRecords(members ...workhours.Member) *memoryRecords {
	return &memoryRecords{members: members, hours: map[string]*records.WorkHour{}}
}

func (f *memoryRecords) MemberByID(_ context.Context, id string) (*workhours.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *memoryRecords) MembersByEmail(_ context.Context, email string) ([]workhours.Member, error) {
	var out []workhours.Member
	for _, m := range f.members {
		if strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memoryRecords) MemberByEmail(ctx context.Context, email string) (*workhours.Member, error) {
	list, _ := f.MembersByEmail(ctx, email)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (f *memoryRecords) FamilyMembers(_ context.Context, familyID string) ([]workhours.Member, error) {
	var out []workhours.Member
	for _, m := range f.members {
		if m.FamilyID == familyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memoryRecords) WorkHoursForMember(_ context.Context, memberID string, year int) ([]workhours.Entry, error) {
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

func (f *memoryRecords) WorkHourByID(_ context.Context, id string) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wh, ok := f.hours[id]
	if !ok {
		return nil, nil
	}
	cp := *wh
	return &cp, nil
}

func (f *memoryRecords) CreateWorkHour(_ context.Context, v workhours.Validated, owner workhours.Member) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	wh := &records.WorkHour{
		Entry:     workhours.Entry{ID: fmt.Sprintf("rec%d", f.nextID), MemberID: owner.ID, Date: v.Date, Description: v.Description, Hours: v.Hours},
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
	}
	f.hours[wh.ID] = wh
	return wh, nil
}

func (f *memoryRecords) UpdateWorkHour(_ context.Context, id string, v workhours.Validated, _ workhours.Member) (*records.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wh := f.hours[id]
	wh.Date, wh.Description, wh.Hours = v.Date, v.Description, v.Hours
	return wh, nil
}

func (f *memoryRecords) DeleteWorkHour(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hours, id)
	return nil
}

type outbox struct {
	mu     sync.Mutex
	tokens []string
}

func (o *outbox) SendPasswordReset(_ context.Context, _, token, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tokens = append(o.tokens, token)
	return nil
}
