package workhours

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	mu         sync.Mutex
	members    map[string]Member
	entries    map[string][]Entry
	memberErr  error
	familyErr  error
	entryErrs  map[string]error
	entryCalls map[string]int
}

func (f *fakeDirectory) MemberByID(_ context.Context, id string) (*Member, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	m, ok := f.members[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeDirectory) FamilyMembers(_ context.Context, familyID string) ([]Member, error) {
	if f.familyErr != nil {
		return nil, f.familyErr
	}
	var out []Member
	for _, id := range []string{"p1", "p2", "k1"} {
		if m, ok := f.members[id]; ok && m.FamilyID == familyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDirectory) WorkHoursForMember(_ context.Context, memberID string, _ int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entryCalls == nil {
		f.entryCalls = map[string]int{}
	}
	f.entryCalls[memberID]++
	if err := f.entryErrs[memberID]; err != nil {
		return nil, err
	}
	return f.entries[memberID], nil
}

func newFamilyDirectory() *fakeDirectory {
	return &fakeDirectory{
		members: map[string]Member{
			"p1": {ID: "p1", FirstName: "Paul", LastName: "Berg", BirthDate: "1990-01-01", JoinDate: "2023-05-01", FamilyID: "Berg"},
			"p2": {ID: "p2", FirstName: "Petra", LastName: "Berg", BirthDate: "1991-01-01", FamilyID: "Berg"},
			"k1": {ID: "k1", FirstName: "Kim", LastName: "Berg", BirthDate: "2016-01-01", FamilyID: "Berg"},
			"s1": {ID: "s1", FirstName: "Sam", LastName: "Solo", BirthDate: "1990-01-01"},
		},
		entries: map[string][]Entry{
			"p1": {{ID: "e1", Date: "2024-03-01", Hours: 2.5}, {ID: "e2", Date: "2024-04-01", Hours: 1}, {ID: "e3", Date: "2024-05-01", Hours: 4.5}},
			"p2": {{ID: "e4", Date: "2024-06-01", Hours: 2}},
			"s1": {{ID: "e5", Date: "2024-03-01", Hours: 2.5}, {ID: "e6", Date: "2024-04-01", Hours: 1}, {ID: "e7", Date: "2024-05-01", Hours: 4.5}},
		},
	}
}

func TestBuildDashboardSolo(t *testing.T) {
	a := NewAssembler(newFamilyDirectory(), DefaultPolicy, 2)
	d, err := a.BuildDashboard(context.Background(), "s1", 2024)
	require.NoError(t, err)
	assert.True(t, d.Success)
	assert.Equal(t, 2024, d.Year)
	assert.Nil(t, d.Family)
	assert.Equal(t, 8.0, d.Personal.Hours)
	assert.Equal(t, 8.0, d.Personal.Required)
}

func TestBuildDashboardFamily(t *testing.T) {
	dir := newFamilyDirectory()
	a := NewAssembler(dir, DefaultPolicy, 2)
	d, err := a.BuildDashboard(context.Background(), "p1", 2024)
	require.NoError(t, err)

	require.NotNil(t, d.Family)
	assert.Equal(t, "Berg", d.Family.Name)
	assert.Equal(t, 16.0, d.Family.Required)
	assert.Equal(t, 10.0, d.Family.Completed)
	assert.Equal(t, 6.0, d.Family.Remaining)
	assert.Equal(t, 62.5, d.Family.Percentage)
	require.Len(t, d.Family.Contributions, 3)
	assert.Equal(t, "k1", d.Family.Contributions[2].ID)
	assert.Equal(t, ReasonAge, d.Family.Contributions[2].Exemption)
	assert.Equal(t, 1, dir.entryCalls["p1"])
}

func TestBuildDashboardMemberEntriesFailure(t *testing.T) {
	dir := newFamilyDirectory()
	dir.entryErrs = map[string]error{"p2": errors.New("timeout")}
	d, err := NewAssembler(dir, DefaultPolicy, 0).BuildDashboard(context.Background(), "p1", 2024)
	require.NoError(t, err)
	assert.Equal(t, 8.0, d.Family.Completed)
	assert.Empty(t, d.Family.Contributions[1].Entries)
}

func TestBuildDashboardFamilyFailure(t *testing.T) {
	dir := newFamilyDirectory()
	dir.familyErr = errors.New("502")
	d, err := NewAssembler(dir, DefaultPolicy, 0).BuildDashboard(context.Background(), "p1", 2024)
	require.NoError(t, err)
	assert.Nil(t, d.Family)
	assert.Equal(t, 8.0, d.Personal.Hours)
}

func TestBuildDashboardErrors(t *testing.T) {
	dir := newFamilyDirectory()
	_, err := NewAssembler(dir, DefaultPolicy, 0).BuildDashboard(context.Background(), "nobody", 2024)
	assert.ErrorIs(t, err, ErrNotFound)

	dir.entryErrs = map[string]error{"s1": errors.New("down")}
	_, err = NewAssembler(dir, DefaultPolicy, 0).BuildDashboard(context.Background(), "s1", 2024)
	assert.ErrorIs(t, err, ErrUpstream)

	dir.memberErr = errors.New("down")
	_, err = NewAssembler(dir, DefaultPolicy, 0).BuildDashboard(context.Background(), "s1", 2024)
	assert.ErrorIs(t, err, ErrUpstream)
}
