// Package workhours computes volunteer work-hour obligations and progress for
// club members and their families, and validates new work-hour submissions.
package workhours

import (
	"context"
	"strings"
)

// Member is a directory snapshot of one club member.
type Member struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	BirthDate string
	FamilyID  string
	JoinDate  string
}

func (m Member) Name() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Entry is one recorded work-hour submission. Date is always YYYY-MM-DD and
// Hours is already normalized to hours.
type Entry struct {
	ID          string  `json:"id"`
	MemberID    string  `json:"-"`
	Date        string  `json:"Datum"`
	Description string  `json:"Tätigkeit"`
	Hours       float64 `json:"Stunden"`
}

// Directory is the read side of the member directory the dashboard needs.
type Directory interface {
	MemberByID(ctx context.Context, id string) (*Member, error)
	FamilyMembers(ctx context.Context, familyID string) ([]Member, error)
	EntryLookup
}

// EntryLookup returns a member's entries. A zero year means every year.
type EntryLookup interface {
	WorkHoursForMember(ctx context.Context, memberID string, year int) ([]Entry, error)
}

type PersonalSummary struct {
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Required  float64 `json:"required"`
	Exemption string  `json:"exemption,omitempty"`
	Entries   []Entry `json:"entries"`
}

type FamilyMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Contribution struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Required  float64 `json:"required"`
	Exemption string  `json:"exemption,omitempty"`
	Entries   []Entry `json:"entries"`
}

type FamilySummary struct {
	Name          string         `json:"name"`
	Members       []FamilyMember `json:"members"`
	Required      float64        `json:"required"`
	Completed     float64        `json:"completed"`
	Remaining     float64        `json:"remaining"`
	Percentage    float64        `json:"percentage"`
	Contributions []Contribution `json:"memberContributions"`
}

type Dashboard struct {
	Success  bool             `json:"success"`
	Personal *PersonalSummary `json:"personal"`
	Family   *FamilySummary   `json:"family"`
	Year     int              `json:"year"`
}
