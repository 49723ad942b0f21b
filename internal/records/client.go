// Package records talks to the Teable base that holds the club's members and
// their work-hour entries.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"club-hours/internal/config"
	"club-hours/internal/logger"
	"club-hours/internal/workhours"
)

// Client implements workhours.Directory plus the work-hour writes.
type Client struct {
	baseURL   string
	token     string
	members   string
	workHours string
	seconds   bool
	loc       *time.Location
	pageSize  int
	client    *http.Client
}

func New(cfg config.RecordsConfig, loc *time.Location) *Client {
	if loc == nil {
		loc = time.UTC
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.Token,
		members:   cfg.MembersTable,
		workHours: cfg.WorkHoursTable,
		seconds:   cfg.HoursUnit == "seconds",
		loc:       loc,
		pageSize:  pageSize,
		client:    &http.Client{Timeout: timeout},
	}
}

var memberProjection = []string{fieldFirstName, fieldLastName, fieldEmail, fieldFamily, fieldBirthDate, fieldJoinDate}

// --- Members ---

func (c *Client) MemberByID(ctx context.Context, id string) (*workhours.Member, error) {
	var rec record
	found, err := c.getRecord(ctx, c.members, id, memberProjection, &rec)
	if err != nil || !found {
		return nil, err
	}
	m := c.toMember(rec)
	return &m, nil
}

// MemberByEmail returns the first member registered with email, nil if none.
func (c *Client) MemberByEmail(ctx context.Context, email string) (*workhours.Member, error) {
	list, err := c.MembersByEmail(ctx, email)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

// MembersByEmail returns every member sharing email, compared case-insensitively.
func (c *Client) MembersByEmail(ctx context.Context, email string) ([]workhours.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	recs, err := c.listRecords(ctx, c.members, isFilter(fieldEmail, email), memberProjection)
	if err != nil {
		return nil, err
	}
	var out []workhours.Member
	for _, r := range recs {
		m := c.toMember(r)
		if strings.EqualFold(strings.TrimSpace(m.Email), email) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *Client) FamilyMembers(ctx context.Context, familyID string) ([]workhours.Member, error) {
	recs, err := c.listRecords(ctx, c.members, isFilter(fieldFamily, familyID), memberProjection)
	if err != nil {
		return nil, err
	}
	out := make([]workhours.Member, 0, len(recs))
	for _, r := range recs {
		m := c.toMember(r)
		if m.FamilyID == familyID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- Work hours ---

// WorkHoursForMember lists memberID's entries dated in year, or all of them
// when year is 0. Records missing a date, activity or duration are skipped.
func (c *Client) WorkHoursForMember(ctx context.Context, memberID string, year int) ([]workhours.Entry, error) {
	recs, err := c.listRecords(ctx, c.workHours, isFilter(fieldMemberLink, memberID), nil)
	if err != nil {
		return nil, err
	}
	prefix := strconv.Itoa(year) + "-"
	out := make([]workhours.Entry, 0, len(recs))
	for _, r := range recs {
		wh, ok := c.toWorkHour(r)
		if !ok || wh.MemberID != memberID {
			continue
		}
		if year != 0 && !strings.HasPrefix(wh.Date, prefix) {
			continue
		}
		out = append(out, wh.Entry)
	}
	return out, nil
}

func (c *Client) WorkHourByID(ctx context.Context, id string) (*WorkHour, error) {
	var rec record
	found, err := c.getRecord(ctx, c.workHours, id, nil, &rec)
	if err != nil || !found {
		return nil, err
	}
	wh, _ := c.toWorkHour(rec)
	return &wh, nil
}

func (c *Client) CreateWorkHour(ctx context.Context, v workhours.Validated, owner workhours.Member) (*WorkHour, error) {
	body := map[string]any{"records": []any{map[string]any{"fields": c.writeFields(v, owner)}}}
	var resp listResponse
	if err := c.doJSON(ctx, http.MethodPost, c.tablePath(c.workHours), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Records) == 0 {
		return nil, fmt.Errorf("%w: create returned no record", workhours.ErrUpstream)
	}
	wh, _ := c.toWorkHour(resp.Records[0])
	logger.Info("records.work_hour_created", "id", wh.ID, "member", owner.ID, "date", v.Date)
	return &wh, nil
}

func (c *Client) UpdateWorkHour(ctx context.Context, id string, v workhours.Validated, owner workhours.Member) (*WorkHour, error) {
	body := map[string]any{"record": map[string]any{"fields": c.writeFields(v, owner)}}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPatch, c.tablePath(c.workHours)+"/"+url.PathEscape(id), body, &raw); err != nil {
		return nil, err
	}
	// the record comes back either bare or wrapped in "record"
	var wrapped struct {
		Record *record `json:"record"`
	}
	var rec record
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Record != nil {
		rec = *wrapped.Record
	} else if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode update: %v", workhours.ErrUpstream, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	wh, _ := c.toWorkHour(rec)
	logger.Info("records.work_hour_updated", "id", id, "member", owner.ID)
	return &wh, nil
}

func (c *Client) DeleteWorkHour(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.tablePath(c.workHours)+"/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	logger.Info("records.work_hour_deleted", "id", id)
	return nil
}

func (c *Client) writeFields(v workhours.Validated, owner workhours.Member) map[string]any {
	stored := v.Hours
	if c.seconds {
		stored = v.Hours * 3600
	}
	return map[string]any{
		fieldMemberLink:  map[string]string{"id": owner.ID},
		fieldFirstName:   owner.FirstName,
		fieldLastName:    owner.LastName,
		fieldDate:        v.Date,
		fieldDescription: v.Description,
		fieldHours:       stored,
	}
}

// --- HTTP helpers ---

func (c *Client) tablePath(table string) string {
	return "/table/" + url.PathEscape(table) + "/record"
}

func (c *Client) getRecord(ctx context.Context, table, id string, projection []string, out *record) (bool, error) {
	q := url.Values{}
	for _, f := range projection {
		q.Add("projection[]", f)
	}
	path := c.tablePath(table) + "/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	err := c.doJSON(ctx, http.MethodGet, path, nil, out)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// listRecords pages through every record matching filter.
func (c *Client) listRecords(ctx context.Context, table, filter string, projection []string) ([]record, error) {
	var all []record
	for skip := 0; ; skip += c.pageSize {
		q := url.Values{}
		if filter != "" {
			q.Set("filter", filter)
		}
		for _, f := range projection {
			q.Add("projection[]", f)
		}
		q.Set("take", strconv.Itoa(c.pageSize))
		q.Set("skip", strconv.Itoa(skip))

		var page listResponse
		if err := c.doJSON(ctx, http.MethodGet, c.tablePath(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if len(page.Records) < c.pageSize {
			return all, nil
		}
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d: %s", e.code, e.body) }

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: records api %s %s: %v", workhours.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()
	logger.Debug("records.request", "method", method, "path", path, "status", resp.StatusCode, "ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: records api %s %s: %w", workhours.ErrUpstream, method, path, &statusError{code: resp.StatusCode, body: string(data)})
	}

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read response: %v", workhours.ErrUpstream, err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("%w: decode response: %v", workhours.ErrUpstream, err)
			}
		}
	}
	return nil
}
