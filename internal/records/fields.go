package records

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"club-hours/internal/workhours"
)

const (
	fieldFirstName   = "Vorname"
	fieldLastName    = "Nachname"
	fieldEmail       = "Email"
	fieldFamily      = "Familie"
	fieldBirthDate   = "Geburtsdatum"
	fieldJoinDate    = "Eintrittsdatum"
	fieldMemberLink  = "Mitglied_id"
	fieldMemberUUID  = "Mitglied_UUID"
	fieldDate        = "Datum"
	fieldDescription = "Tätigkeit"
	fieldHours       = "Stunden"
)

type record struct {
	ID     string                     `json:"id"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type listResponse struct {
	Records []record `json:"records"`
}

// WorkHour is a stored entry together with the owner names kept on the row.
type WorkHour struct {
	workhours.Entry
	FirstName string `json:"Vorname"`
	LastName  string `json:"Nachname"`
}

// linkRef is the member link on a work-hour row. Teable sends it as a bare
// id, as {"id": ...} or as a list of those.
type linkRef struct{ ID string }

func (l *linkRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '"':
		return json.Unmarshal(b, &l.ID)
	case b[0] == '[':
		var list []linkRef
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			l.ID = list[0].ID
		}
		return nil
	default:
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		l.ID = obj.ID
		return nil
	}
}

func isFilter(field, value string) string {
	f := map[string]any{
		"conjunction": "and",
		"filterSet": []any{map[string]any{
			"fieldId":  field,
			"operator": "is",
			"value":    value,
		}},
	}
	data, _ := json.Marshal(f)
	return string(data)
}

// text reads a field as a string; numbers are formatted without exponent.
func text(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func number(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// toMember keeps the birth date as stored; the join date is read as a club
// calendar day.
func (c *Client) toMember(r record) workhours.Member {
	return workhours.Member{
		ID:        r.ID,
		FirstName: text(r.Fields, fieldFirstName),
		LastName:  text(r.Fields, fieldLastName),
		Email:     text(r.Fields, fieldEmail),
		FamilyID:  text(r.Fields, fieldFamily),
		BirthDate: text(r.Fields, fieldBirthDate),
		JoinDate:  c.localDate(text(r.Fields, fieldJoinDate)),
	}
}

// toWorkHour maps a row and reports whether it carried a date, an activity
// and a duration.
func (c *Client) toWorkHour(r record) (WorkHour, bool) {
	wh := WorkHour{
		Entry: workhours.Entry{
			ID:          r.ID,
			Date:        c.localDate(text(r.Fields, fieldDate)),
			Description: text(r.Fields, fieldDescription),
		},
		FirstName: text(r.Fields, fieldFirstName),
		LastName:  text(r.Fields, fieldLastName),
	}

	if raw, ok := r.Fields[fieldMemberLink]; ok {
		var link linkRef
		if err := json.Unmarshal(raw, &link); err == nil {
			wh.MemberID = link.ID
		}
	}
	if wh.MemberID == "" {
		wh.MemberID = text(r.Fields, fieldMemberUUID)
	}

	stored, hasHours := number(r.Fields, fieldHours)
	if c.seconds {
		wh.Hours = math.Round(stored/3600*100) / 100
	} else {
		wh.Hours = stored
	}
	return wh, wh.Date != "" && wh.Description != "" && hasHours
}

// localDate turns a stored date-time into the club-local calendar day.
func (c *Client) localDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(c.loc).Format("2006-01-02")
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
