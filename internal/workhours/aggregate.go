package workhours

// AggregatePersonal applies DefaultPolicy.
func AggregatePersonal(m Member, year int, entries []Entry) PersonalSummary {
	return DefaultPolicy.AggregatePersonal(m, year, entries)
}

// AggregateFamily applies DefaultPolicy.
func AggregateFamily(members []Member, year int, entriesByMember map[string][]Entry) FamilySummary {
	return DefaultPolicy.AggregateFamily(members, year, entriesByMember)
}

// AggregatePersonal totals the entries of m dated in year.
func (p Policy) AggregatePersonal(m Member, year int, entries []Entry) PersonalSummary {
	own := entriesInYear(entries, year)
	var total float64
	for _, e := range own {
		total += e.Hours
	}
	required, reason := p.RequiredHours(m, year)
	return PersonalSummary{
		Name:      m.Name(),
		Hours:     round2(total),
		Required:  required,
		Exemption: reason,
		Entries:   own,
	}
}

// AggregateFamily sums each member's own year totals. Contributions keep
// the order of members. Percentage is 100 when nobody owes hours and is
// not capped when the family did more than required.
func (p Policy) AggregateFamily(members []Member, year int, entriesByMember map[string][]Entry) FamilySummary {
	fs := FamilySummary{
		Members:       make([]FamilyMember, 0, len(members)),
		Contributions: make([]Contribution, 0, len(members)),
	}
	if len(members) > 0 {
		fs.Name = members[0].FamilyID
	}

	var required, completed float64
	for _, m := range members {
		ps := p.AggregatePersonal(m, year, entriesByMember[m.ID])
		required += ps.Required
		completed += ps.Hours
		fs.Members = append(fs.Members, FamilyMember{ID: m.ID, Name: m.Name(), Email: m.Email})
		fs.Contributions = append(fs.Contributions, Contribution{
			ID:        m.ID,
			Name:      ps.Name,
			Hours:     ps.Hours,
			Required:  ps.Required,
			Exemption: ps.Exemption,
			Entries:   ps.Entries,
		})
	}

	fs.Required = round2(required)
	fs.Completed = round2(completed)
	fs.Remaining = round2(max(fs.Required-fs.Completed, 0))
	if fs.Required == 0 {
		fs.Percentage = 100
	} else {
		fs.Percentage = round2(fs.Completed / fs.Required * 100)
	}
	return fs
}

func entriesInYear(entries []Entry, year int) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Date = NormalizeDate(e.Date)
		if entryYear(e.Date) != year {
			continue
		}
		out = append(out, e)
	}
	return out
}
