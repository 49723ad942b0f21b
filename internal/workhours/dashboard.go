package workhours

import (
	"context"
	"fmt"

	"club-hours/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Assembler builds dashboards from directory data.
type Assembler struct {
	dir    Directory
	policy Policy
	fanout int
}

func NewAssembler(dir Directory, policy Policy, fanout int) *Assembler {
	if fanout <= 0 {
		fanout = 4
	}
	return &Assembler{dir: dir, policy: policy, fanout: fanout}
}

// BuildDashboard returns memberID's personal progress for year and, when
// they belong to a family, the family's combined progress. Failures while
// loading family data degrade to missing family data instead of an error.
func (a *Assembler) BuildDashboard(ctx context.Context, memberID string, year int) (*Dashboard, error) {
	m, err := a.dir.MemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: member %s: %v", ErrUpstream, memberID, err)
	}
	if m == nil {
		return nil, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}

	own, err := a.dir.WorkHoursForMember(ctx, m.ID, year)
	if err != nil {
		return nil, fmt.Errorf("%w: entries of %s: %v", ErrUpstream, m.ID, err)
	}
	personal := a.policy.AggregatePersonal(*m, year, own)

	d := &Dashboard{Success: true, Personal: &personal, Year: year}
	if m.FamilyID != "" {
		d.Family = a.family(ctx, *m, own, year)
	}
	logger.Debug("dashboard.built", "member", m.ID, "year", year, "family", d.Family != nil)
	return d, nil
}

func (a *Assembler) family(ctx context.Context, self Member, own []Entry, year int) *FamilySummary {
	members, err := a.dir.FamilyMembers(ctx, self.FamilyID)
	if err != nil {
		logger.Warn("dashboard.family_failed", "family", self.FamilyID, "err", err)
		return nil
	}
	if len(members) == 0 {
		members = []Member{self}
	}

	entries := make([][]Entry, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fanout)
	for i, fm := range members {
		if fm.ID == self.ID {
			entries[i] = own
			continue
		}
		g.Go(func() error {
			list, err := a.dir.WorkHoursForMember(gctx, fm.ID, year)
			if err != nil {
				logger.Warn("dashboard.member_entries_failed", "member", fm.ID, "err", err)
				return nil
			}
			entries[i] = list
			return nil
		})
	}
	_ = g.Wait()

	byMember := make(map[string][]Entry, len(members))
	for i, fm := range members {
		byMember[fm.ID] = entries[i]
	}
	fs := a.policy.AggregateFamily(members, year, byMember)
	fs.Name = self.FamilyID
	return &fs
}
