package records

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"club-hours/internal/config"
	"club-hours/internal/workhours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeable struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeTeable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, string(data))
	f.mu.Unlock()
	f.handle(w, r)
}

func newTestClient(t *testing.T, unit string, handle func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeTeable) {
	t.Helper()
	fake := &fakeTeable{handle: handle}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	c := New(config.RecordsConfig{
		BaseURL:        srv.URL + "/api/",
		Token:          "tok",
		MembersTable:   "tblM",
		WorkHoursTable: "tblW",
		HoursUnit:      unit,
		PageSize:       2,
	}, loc)
	return c, fake
}

func writeJSON(w http.ResponseWriter, v string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, v)
}

func TestMemberByID(t *testing.T) {
	c, fake := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/recMissing") {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, `{"id":"recA","fields":{"Vorname":"Anna","Nachname":"Berg","Email":"Anna@Example.org","Familie":42,"Geburtsdatum":"1990-04-02T22:00:00.000Z","Eintrittsdatum":"2023-05-01"}}`)
	})

	m, err := c.MemberByID(context.Background(), "recA")
	require.NoError(t, err)
	assert.Equal(t, workhours.Member{
		ID: "recA", FirstName: "Anna", LastName: "Berg", Email: "Anna@Example.org",
		FamilyID: "42", BirthDate: "1990-04-02T22:00:00.000Z", JoinDate: "2023-05-01",
	}, *m)

	req := fake.requests[0]
	assert.Equal(t, "/api/table/tblM/record/recA", req.URL.Path)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	assert.Contains(t, req.URL.Query()["projection[]"], "Geburtsdatum")

	m, err = c.MemberByID(context.Background(), "recMissing")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMemberJoinDateInClubTimezone(t *testing.T) {
	c, _ := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":"recJ","fields":{"Vorname":"Jan","Geburtsdatum":"1990-04-02","Eintrittsdatum":"2024-06-30T22:00:00.000Z"}}`)
	})

	m, err := c.MemberByID(context.Background(), "recJ")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", m.JoinDate)

	hours, reason := workhours.RequiredHours(*m, 2024)
	assert.Zero(t, hours)
	assert.Equal(t, workhours.ReasonLateEntry, reason)
}

func TestMembersByEmailCaseInsensitive(t *testing.T) {
	c, fake := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"records":[
			{"id":"r1","fields":{"Vorname":"A","Email":"Family@Example.org"}},
			{"id":"r2","fields":{"Vorname":"B","Email":"other@example.org"}}
		]}`)
	})

	list, err := c.MembersByEmail(context.Background(), " FAMILY@example.org ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)

	var filter struct {
		FilterSet []struct {
			FieldID string `json:"fieldId"`
			Value   string `json:"value"`
		} `json:"filterSet"`
	}
	require.NoError(t, json.Unmarshal([]byte(fake.requests[0].URL.Query().Get("filter")), &filter))
	assert.Equal(t, "Email", filter.FilterSet[0].FieldID)
	assert.Equal(t, "family@example.org", filter.FilterSet[0].Value)

	m, err := c.MemberByEmail(context.Background(), "nobody@example.org")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestWorkHoursForMember(t *testing.T) {
	pages := []string{
		`{"records":[
			{"id":"w1","fields":{"Mitglied_id":{"id":"recA"},"Datum":"2024-03-04T23:30:00.000Z","Tätigkeit":"Platz","Stunden":2.5}},
			{"id":"w2","fields":{"Mitglied_id":[{"id":"recA","title":"Anna"}],"Datum":"2023-12-01","Tätigkeit":"Alt","Stunden":1}}
		]}`,
		`{"records":[
			{"id":"w3","fields":{"Mitglied_id":"recA","Datum":"2024-06-01","Tätigkeit":"Fest","Stunden":"3"}},
			{"id":"w4","fields":{"Mitglied_UUID":"recA","Datum":"2024-06-02","Stunden":1}}
		]}`,
		`{"records":[
			{"id":"w5","fields":{"Mitglied_id":"recB","Datum":"2024-06-03","Tätigkeit":"Fremd","Stunden":1}}
		]}`,
	}
	var n int
	c, fake := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pages[n])
		n++
	})

	entries, err := c.WorkHoursForMember(context.Background(), "recA", 2024)
	require.NoError(t, err)
	assert.Equal(t, []workhours.Entry{
		{ID: "w1", MemberID: "recA", Date: "2024-03-05", Description: "Platz", Hours: 2.5},
		{ID: "w3", MemberID: "recA", Date: "2024-06-01", Description: "Fest", Hours: 3},
	}, entries)
	assert.Len(t, fake.requests, 3)
	assert.Equal(t, "2", fake.requests[1].URL.Query().Get("skip"))
}

func TestCreateWorkHourInSeconds(t *testing.T) {
	c, fake := newTestClient(t, "seconds", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"records":[{"id":"wNew","fields":{"Mitglied_id":[{"id":"recA"}],"Datum":"2024-05-01","Tätigkeit":"Hecke","Stunden":9000,"Vorname":"Anna","Nachname":"Berg"}}]}`)
	})

	owner := workhours.Member{ID: "recA", FirstName: "Anna", LastName: "Berg"}
	wh, err := c.CreateWorkHour(context.Background(), workhours.Validated{Date: "2024-05-01", Description: "Hecke", Hours: 2.5}, owner)
	require.NoError(t, err)
	assert.Equal(t, "wNew", wh.ID)
	assert.Equal(t, 2.5, wh.Hours)
	assert.Equal(t, "Anna", wh.FirstName)

	assert.Equal(t, http.MethodPost, fake.requests[0].Method)
	assert.JSONEq(t, `{"records":[{"fields":{"Mitglied_id":{"id":"recA"},"Vorname":"Anna","Nachname":"Berg","Datum":"2024-05-01","Tätigkeit":"Hecke","Stunden":9000}}]}`, fake.bodies[0])
}

func TestUpdateWorkHourResponseShapes(t *testing.T) {
	responses := []string{
		`{"record":{"id":"w1","fields":{"Mitglied_id":"recA","Datum":"2024-05-02","Tätigkeit":"Neu","Stunden":1.5}}}`,
		`{"id":"w1","fields":{"Mitglied_id":"recA","Datum":"2024-05-03","Tätigkeit":"Neu","Stunden":2}}`,
	}
	var n int
	c, fake := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, responses[n])
		n++
	})
	owner := workhours.Member{ID: "recA"}

	wh, err := c.UpdateWorkHour(context.Background(), "w1", workhours.Validated{Date: "2024-05-02", Description: "Neu", Hours: 1.5}, owner)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", wh.Date)

	wh, err = c.UpdateWorkHour(context.Background(), "w1", workhours.Validated{Date: "2024-05-03", Description: "Neu", Hours: 2}, owner)
	require.NoError(t, err)
	assert.Equal(t, 2.0, wh.Hours)

	assert.Equal(t, http.MethodPatch, fake.requests[0].Method)
	assert.Equal(t, "/api/table/tblW/record/w1", fake.requests[0].URL.Path)
	assert.Contains(t, fake.bodies[0], `"record":{"fields"`)
}

func TestUpstreamErrors(t *testing.T) {
	c, _ := newTestClient(t, "hours", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.FamilyMembers(context.Background(), "Berg")
	assert.ErrorIs(t, err, workhours.ErrUpstream)

	_, err = c.WorkHourByID(context.Background(), "w1")
	assert.ErrorIs(t, err, workhours.ErrUpstream)

	assert.NoError(t, c.DeleteWorkHour(context.Background(), "w1"))
}

func TestLinkRef(t *testing.T) {
	for in, want := range map[string]string{
		`"recA"`:          "recA",
		`{"id":"recB"}`:   "recB",
		`[{"id":"recC"}]`: "recC",
		`[]`:              "",
		`null`:            "",
	} {
		var l linkRef
		require.NoError(t, json.Unmarshal([]byte(in), &l), in)
		assert.Equal(t, want, l.ID, in)
	}
}
