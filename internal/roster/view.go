package roster

import (
	"slices"
	"sync"

	"github.com/yakoovad/flowcraft/internal/model"
)

// View holds the roster state of one open team page. Every new workspace
// snapshot replaces the local member list; removals mutate it in between.
type View struct {
	mu sync.RWMutex

	members    []*model.Membership
	snapshot   model.AggregateStats
	searchTerm string
	filtered   []*model.Membership

	// generation counts applied snapshots so a late rollback can tell it is stale.
	generation uint64
	// confirmed holds ids whose removal the server acknowledged since the last snapshot.
	confirmed map[string]struct{}

	closed      bool
	unsubscribe func()
}

func NewView() *View {
	return &View{
		members:   []*model.Membership{},
		filtered:  []*model.Membership{},
		confirmed: make(map[string]struct{}),
	}
}

// Bind applies the source's current snapshot and every later one until Close.
func (v *View) Bind(src SnapshotSource) {
	unsubscribe := src.Subscribe(v.Apply)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		unsubscribe()
		return
	}
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
	v.unsubscribe = unsubscribe
}

// Apply replaces the view state with the projection of ws.
func (v *View) Apply(ws *model.Workspace) {
	p := Project(ws)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.members = p.Members
	v.snapshot = p.Stats
	v.generation++
	clear(v.confirmed)
	v.refilter()
}

func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.searchTerm = term
	v.refilter()
}

// State returns a copy of the current view state.
func (v *View) State() model.RosterViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()

	stats := v.snapshot
	stats.TotalMembers = len(v.members)

	return model.RosterViewState{
		Members:         slices.Clone(v.members),
		SearchTerm:      v.searchTerm,
		FilteredMembers: slices.Clone(v.filtered),
		Stats:           stats,
	}
}

// Close detaches the view from its source. A closed view ignores all further updates.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// removal remembers where a member sat so it can be put back.
type removal struct {
	member     *model.Membership
	index      int
	generation uint64
}

// remove drops every member with the given id. ok is false when nothing was removed.
func (v *View) remove(memberID string) (removal, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return removal{}, false
	}

	idx := slices.IndexFunc(v.members, func(m *model.Membership) bool { return m.ID == memberID })
	if idx < 0 {
		return removal{}, false
	}

	r := removal{member: v.members[idx], index: idx, generation: v.generation}
	v.members = slices.DeleteFunc(slices.Clone(v.members), func(m *model.Membership) bool { return m.ID == memberID })
	v.refilter()

	return r, true
}

// confirm records a server-acknowledged removal and makes sure the member is gone locally.
func (v *View) confirm(memberID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.confirmed[memberID] = struct{}{}

	if slices.ContainsFunc(v.members, func(m *model.Membership) bool { return m.ID == memberID }) {
		v.members = slices.DeleteFunc(slices.Clone(v.members), func(m *model.Membership) bool { return m.ID == memberID })
		v.refilter()
	}
}

// restore puts a removed member back unless a newer snapshot has already
// replaced the list, another attempt confirmed the removal, or the member is present again.
func (v *View) restore(r removal) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.generation != r.generation {
		return false
	}
	if _, ok := v.confirmed[r.member.ID]; ok {
		return false
	}
	if slices.ContainsFunc(v.members, func(m *model.Membership) bool { return m.ID == r.member.ID }) {
		return false
	}

	idx := min(r.index, len(v.members))
	v.members = slices.Insert(slices.Clone(v.members), idx, r.member)
	v.refilter()

	return true
}

func (v *View) refilter() {
	v.filtered = Filter(v.members, v.searchTerm)
}
