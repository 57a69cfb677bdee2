package app

import "time"

// State of the dashboard data.
type State int

// Dashboard states.
//
// Idle - nothing loaded and nothing in flight.
// Loading - full load in flight, no data to show yet (or data being replaced after a mutation).
// Ready - data present.
// Refreshing - background or manual reload in flight, current data still shown.
const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	}
	return "unknown"
}

// Snapshot is a consistent copy of the dashboard state.
// Stats values are shared between snapshots and must not be modified.
type Snapshot struct {
	State       State
	Config      *Config
	Projects    []Project
	Stats       map[int]*ProjectStats
	Filters     map[int]Filter
	LastUpdated time.Time
}

// Loading tells if the initial (or post-mutation) load is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// Refreshing tells if a reload is in flight while data is shown.
func (s Snapshot) Refreshing() bool {
	return s.State == StateRefreshing
}

// Filter returns filter selected for the project.
func (s Snapshot) Filter(projectID int) Filter {
	if f, ok := s.Filters[projectID]; ok {
		return f.Resolve()
	}
	return FilterAll
}

// Project finds project by id.
func (s Snapshot) Project(projectID int) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == projectID {
			return p, true
		}
	}
	return Project{}, false
}

// Totals returns summary of all projects stats.
func (s Snapshot) Totals() Totals {
	return SumTotals(s.Stats)
}

// Activity returns daily activity merged across all projects.
func (s Snapshot) Activity() []ActivityPoint {
	stats := make([]*ProjectStats, 0, len(s.Stats))
	for _, st := range s.Stats {
		stats = append(stats, st)
	}
	return AggregateActivity(stats)
}
