package model

const (
	EmptyRosterMessage   = "No team members yet"
	NoSearchMatchMessage = "No members match your search"
)

// AggregateStats are always computed over the full member set, never the filtered one.
type AggregateStats struct {
	TotalMembers   int `json:"totalMembers"`
	ActiveProjects int `json:"activeProjects"`
	TotalTasks     int `json:"totalTasks"`
}

// RosterViewState is the derived state rendered by a roster view.
type RosterViewState struct {
	Members         []*Membership  `json:"members"`
	SearchTerm      string         `json:"searchTerm"`
	FilteredMembers []*Membership  `json:"filteredMembers"`
	Stats           AggregateStats `json:"stats"`
}

// EmptyReason explains an empty filtered list, or returns "" when there is something to show.
func (s RosterViewState) EmptyReason() string {
	switch {
	case len(s.FilteredMembers) > 0:
		return ""
	case len(s.Members) == 0:
		return EmptyRosterMessage
	default:
		return NoSearchMatchMessage
	}
}

// Roster is the server-side projection of a workspace team.
type Roster struct {
	WorkspaceID string         `json:"workspaceId"`
	SearchTerm  string         `json:"searchTerm"`
	Members     []*Membership  `json:"members"`
	Stats       AggregateStats `json:"stats"`
}
