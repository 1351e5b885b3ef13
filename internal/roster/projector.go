package roster

import (
	"strings"

	"github.com/yakoovad/flowcraft/internal/model"
)

type Projection struct {
	Members []*model.Membership
	Stats   model.AggregateStats
}

// Project derives the member list and aggregate stats from a workspace snapshot.
// A nil workspace yields an empty projection. Nil members, projects and tasks are skipped.
func Project(ws *model.Workspace) Projection {
	if ws == nil {
		return Projection{Members: []*model.Membership{}}
	}

	members := make([]*model.Membership, 0, len(ws.Members))
	for _, m := range ws.Members {
		if m == nil {
			continue
		}
		members = append(members, m)
	}

	stats := model.AggregateStats{TotalMembers: len(members)}
	for _, p := range ws.Projects {
		if p == nil {
			continue
		}
		if p.Status.IsActive() {
			stats.ActiveProjects++
		}
		for _, task := range p.Tasks {
			if task != nil {
				stats.TotalTasks++
			}
		}
	}

	return Projection{Members: members, Stats: stats}
}

// Filter keeps members whose name or email contains term, ignoring case.
// The result preserves input order; an empty term keeps everyone.
func Filter(members []*model.Membership, term string) []*model.Membership {
	res := make([]*model.Membership, 0, len(members))
	if term == "" {
		return append(res, members...)
	}

	needle := strings.ToLower(term)
	for _, m := range members {
		if matches(m.Name(), needle) || matches(m.Email(), needle) {
			res = append(res, m)
		}
	}
	return res
}

func matches(field, needle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), needle)
}
