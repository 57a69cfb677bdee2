package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BackendClient gives access to projects registered in the gitpulse backend and their stats.
//go:generate mockgen -destination mock/backend.go -package mock github.com/m-zajac/gitpulse/internal/app BackendClient
type BackendClient interface {
	Config(ctx context.Context) (Config, error)
	Projects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, draft ProjectDraft) (Project, error)
	DeleteProject(ctx context.Context, id int) error
	ProjectStats(ctx context.Context, id int, filter Filter) (*ProjectStats, error)
}

// FilterStore keeps filter selections between runs.
type FilterStore interface {
	Filters() (map[int]Filter, error)
	SaveFilter(projectID int, filter Filter) error
	DeleteFilter(projectID int) error
}

// Confirmer asks the user if project should be removed.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, p Project) (bool, error)
}

// ConfirmerFunc allows using plain function as Confirmer.
type ConfirmerFunc func(ctx context.Context, p Project) (bool, error)

// ConfirmDelete calls f.
func (f ConfirmerFunc) ConfirmDelete(ctx context.Context, p Project) (bool, error) {
	return f(ctx, p)
}

var errSuperseded = errors.New("load superseded by newer one")

// Dashboard owns projects, their stats and filter selections, and keeps them fresh.
//
// Full loads are serialized by generation: starting a load cancels the one in flight,
// and only the most recently started load commits its results.
type Dashboard struct {
	client          BackendClient
	store           FilterStore
	refreshInterval time.Duration
	l               logrus.FieldLogger
	now             func() time.Time

	// Root context of all requests, canceled on Close.
	ctx    context.Context
	cancel func()

	m             sync.Mutex
	closed        bool
	loaded        bool
	schedulerDone chan struct{}
	state         State
	config        *Config
	projects      []Project
	stats         map[int]*ProjectStats
	filters       map[int]Filter
	lastUpdated   time.Time
	generation    uint64
	inFlight      int
	cancelLoad    func()
}

// NewDashboard creates new Dashboard instance.
// store is optional, when given, filter selections are restored from it and saved on every change.
func NewDashboard(
	client BackendClient,
	store FilterStore,
	refreshInterval time.Duration,
	l logrus.FieldLogger,
) (*Dashboard, error) {
	if refreshInterval <= 0 {
		return nil, errors.New("refresh interval must be greater than zero")
	}

	filters := make(map[int]Filter)
	if store != nil {
		stored, err := store.Filters()
		if err != nil {
			return nil, fmt.Errorf("reading stored filters: %w", err)
		}
		for id, f := range stored {
			if err := f.Validate(); err != nil {
				l.Warnf("ignoring stored filter for project %d: %v", id, err)
				continue
			}
			filters[id] = f.Resolve()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dashboard{
		client:          client,
		store:           store,
		refreshInterval: refreshInterval,
		l:               l,
		now:             time.Now,
		ctx:             ctx,
		cancel:          cancel,
		state:           StateIdle,
		stats:           make(map[int]*ProjectStats),
		filters:         filters,
	}, nil
}

// Start runs the initial load and then refreshes data every refresh interval.
// Doesn't block. Scheduler is stopped by Close.
func (d *Dashboard) Start() {
	d.m.Lock()
	if d.closed || d.schedulerDone != nil {
		d.m.Unlock()
		return
	}
	done := make(chan struct{})
	d.schedulerDone = done
	d.m.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(d.refreshInterval)
		defer ticker.Stop()

		_ = d.Load(d.ctx, false)

		for {
			select {
			case <-ticker.C:
				started, _ := d.Refresh(d.ctx)
				if !started {
					d.l.Debug("scheduled refresh skipped, load already in progress")
				}
			case <-d.ctx.Done():
				return
			}
		}
	}()
}

// Close stops the scheduler and cancels requests in flight.
// Results arriving after Close are dropped.
func (d *Dashboard) Close() {
	d.m.Lock()
	if d.closed {
		d.m.Unlock()
		return
	}
	d.closed = true
	done := d.schedulerDone
	d.m.Unlock()

	d.cancel()
	if done != nil {
		<-done
	}
}

// Load fetches config, projects and stats of every project.
// Fails when config or projects can't be fetched. Failing stats fetch leaves its project without stats.
//
// manual marks reloads made while data is shown (state Refreshing instead of Loading).
// Returns nil when the load was superseded by a newer one.
func (d *Dashboard) Load(ctx context.Context, manual bool) error {
	run, err := d.beginLoad(manual, false)
	if err != nil {
		return err
	}
	return d.runLoad(ctx, run)
}

// Refresh reloads all data unless a load is already in flight.
// Returns false if refresh was skipped.
func (d *Dashboard) Refresh(ctx context.Context) (bool, error) {
	run, err := d.beginLoad(true, true)
	if err != nil {
		return false, err
	}
	if run == nil {
		return false, nil
	}
	return true, d.runLoad(ctx, run)
}

// SetFilter changes project filter and reloads stats of this project only.
// On fetch failure the project is left without stats.
func (d *Dashboard) SetFilter(ctx context.Context, projectID int, filter Filter) (*ProjectStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter = filter.Resolve()

	d.m.Lock()
	if d.closed {
		d.m.Unlock()
		return nil, ErrClosed
	}
	if !d.hasProjectLocked(projectID) {
		d.m.Unlock()
		return nil, InvalidRequestError(fmt.Sprintf("unknown project %d", projectID))
	}
	filters := copyFilters(d.filters)
	filters[projectID] = filter
	d.filters = filters
	d.m.Unlock()

	if d.store != nil {
		if err := d.store.SaveFilter(projectID, filter); err != nil {
			d.l.Warnf("saving filter for project %d: %v", projectID, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	stats, err := d.client.ProjectStats(ctx, projectID, filter)
	if err != nil {
		err = fmt.Errorf("fetching stats for project %d: %w", projectID, err)
		d.l.Warn(err)
		stats = nil
	}

	d.m.Lock()
	defer d.m.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	// Filter changed again or project is gone, newer operation owns the entry.
	if d.filters[projectID] != filter || !d.hasProjectLocked(projectID) {
		return stats, err
	}

	newStats := copyStats(d.stats)
	if stats != nil {
		newStats[projectID] = stats
	} else {
		delete(newStats, projectID)
	}
	d.stats = newStats

	return stats, err
}

// CreateProject validates and registers new project, then reloads all data.
// Validation errors are returned before any request is made.
func (d *Dashboard) CreateProject(ctx context.Context, draft ProjectDraft) (Project, error) {
	if err := draft.Validate(); err != nil {
		return Project{}, err
	}
	if d.isClosed() {
		return Project{}, ErrClosed
	}

	p, err := d.client.CreateProject(ctx, draft)
	if err != nil {
		return Project{}, fmt.Errorf("creating project: %w", err)
	}

	if err := d.Load(ctx, false); err != nil && !errors.Is(err, ErrClosed) {
		d.l.Warnf("reloading after creating project %d: %v", p.ID, err)
	}

	return p, nil
}

// DeleteProject removes project after confirmation, then reloads all data.
// Returns false if removal wasn't confirmed. On backend failure nothing is changed.
func (d *Dashboard) DeleteProject(ctx context.Context, projectID int, confirmer Confirmer) (bool, error) {
	if confirmer == nil {
		return false, InvalidRequestError("project removal must be confirmed")
	}
	if d.isClosed() {
		return false, ErrClosed
	}

	p, ok := d.Snapshot().Project(projectID)
	if !ok {
		p = Project{ID: projectID}
	}
	confirmed, err := confirmer.ConfirmDelete(ctx, p)
	if err != nil {
		return false, fmt.Errorf("confirming removal of project %d: %w", projectID, err)
	}
	if !confirmed {
		return false, nil
	}

	if err := d.client.DeleteProject(ctx, projectID); err != nil {
		return false, fmt.Errorf("deleting project %d: %w", projectID, err)
	}

	d.m.Lock()
	filters := copyFilters(d.filters)
	delete(filters, projectID)
	d.filters = filters
	d.m.Unlock()

	if d.store != nil {
		if err := d.store.DeleteFilter(projectID); err != nil {
			d.l.Warnf("removing stored filter of project %d: %v", projectID, err)
		}
	}

	if err := d.Load(ctx, false); err != nil && !errors.Is(err, ErrClosed) {
		d.l.Warnf("reloading after deleting project %d: %v", projectID, err)
	}

	return true, nil
}

// Snapshot returns copy of current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.m.Lock()
	defer d.m.Unlock()

	s := Snapshot{
		State:       d.state,
		Projects:    append([]Project(nil), d.projects...),
		Stats:       copyStats(d.stats),
		Filters:     copyFilters(d.filters),
		LastUpdated: d.lastUpdated,
	}
	if d.config != nil {
		c := *d.config
		s.Config = &c
	}

	return s
}

type loadRun struct {
	generation uint64
	ctx        context.Context
	cancel     func()
	filters    map[int]Filter
}

type statsResult struct {
	projectID int
	filter    Filter
	stats     *ProjectStats
	err       error
}

func (d *Dashboard) beginLoad(manual bool, skipIfBusy bool) (*loadRun, error) {
	d.m.Lock()
	defer d.m.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if skipIfBusy && d.inFlight > 0 {
		return nil, nil
	}

	if d.cancelLoad != nil {
		d.cancelLoad()
	}
	ctx, cancel := context.WithCancel(d.ctx)
	d.cancelLoad = cancel
	d.generation++
	d.inFlight++
	if manual {
		d.state = StateRefreshing
	} else {
		d.state = StateLoading
	}

	return &loadRun{
		generation: d.generation,
		ctx:        ctx,
		cancel:     cancel,
		filters:    d.filters,
	}, nil
}

func (d *Dashboard) runLoad(ctx context.Context, run *loadRun) error {
	defer d.endLoad(run)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(run.ctx, cancel)
	defer stop()

	var (
		config   Config
		projects []Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := d.client.Config(gctx)
		if err != nil {
			return fmt.Errorf("fetching config: %w", err)
		}
		config = c
		return nil
	})
	g.Go(func() error {
		ps, err := d.client.Projects(gctx)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}
		projects = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		if derr := d.discarded(run); derr != nil {
			return ignoreSuperseded(derr)
		}
		d.l.Errorf("loading dashboard data: %v", err)
		return err
	}

	results := d.fetchStats(ctx, projects, run.filters)

	removed, err := d.commitLoad(run, config, projects, results)
	if err != nil {
		return ignoreSuperseded(err)
	}
	d.deleteStoredFilters(removed)

	return nil
}

func (d *Dashboard) fetchStats(ctx context.Context, projects []Project, filters map[int]Filter) map[int]statsResult {
	responses := make(chan statsResult, len(projects))
	for _, p := range projects {
		filter := FilterAll
		if f, ok := filters[p.ID]; ok {
			filter = f
		}
		go func() {
			stats, err := d.client.ProjectStats(ctx, p.ID, filter)
			responses <- statsResult{
				projectID: p.ID,
				filter:    filter,
				stats:     stats,
				err:       err,
			}
		}()
	}

	results := make(map[int]statsResult, len(projects))
	for i := 0; i < cap(responses); i++ {
		resp := <-responses
		if resp.err != nil {
			if ctx.Err() == nil {
				d.l.Warnf("fetching stats for project %d: %v", resp.projectID, resp.err)
			}
			resp.stats = nil
		}
		results[resp.projectID] = resp
	}

	return results
}

// commitLoad replaces state with loaded data.
// Returns ids of projects whose filters were dropped because backend no longer lists them.
func (d *Dashboard) commitLoad(run *loadRun, config Config, projects []Project, results map[int]statsResult) ([]int, error) {
	d.m.Lock()
	defer d.m.Unlock()

	if err := d.discardedLocked(run); err != nil {
		return nil, err
	}

	filters := make(map[int]Filter, len(projects))
	stats := make(map[int]*ProjectStats, len(projects))
	for _, p := range projects {
		current, ok := d.filters[p.ID]
		if !ok {
			current = FilterAll
		}
		filters[p.ID] = current

		res := results[p.ID]
		if res.filter != current {
			// Filter was changed during the load, stats under the new filter are set by SetFilter.
			if s, ok := d.stats[p.ID]; ok {
				stats[p.ID] = s
			}
			continue
		}
		if res.stats != nil {
			stats[p.ID] = res.stats
		}
	}

	var removed []int
	for id := range d.filters {
		if _, ok := filters[id]; !ok {
			removed = append(removed, id)
		}
	}

	d.config = &config
	d.projects = projects
	d.stats = stats
	d.filters = filters
	d.lastUpdated = d.now()
	d.loaded = true

	return removed, nil
}

func (d *Dashboard) deleteStoredFilters(projectIDs []int) {
	if d.store == nil {
		return
	}
	for _, id := range projectIDs {
		if err := d.store.DeleteFilter(id); err != nil {
			d.l.Warnf("removing stored filter of project %d: %v", id, err)
		}
	}
}

func (d *Dashboard) endLoad(run *loadRun) {
	run.cancel()

	d.m.Lock()
	defer d.m.Unlock()

	d.inFlight--
	if run.generation == d.generation {
		d.cancelLoad = nil
	}
	if d.inFlight == 0 {
		if d.loaded {
			d.state = StateReady
		} else {
			d.state = StateIdle
		}
	}
}

func (d *Dashboard) discarded(run *loadRun) error {
	d.m.Lock()
	defer d.m.Unlock()

	return d.discardedLocked(run)
}

func (d *Dashboard) discardedLocked(run *loadRun) error {
	if d.closed {
		return ErrClosed
	}
	if run.generation != d.generation {
		return errSuperseded
	}
	return nil
}

func (d *Dashboard) isClosed() bool {
	d.m.Lock()
	defer d.m.Unlock()

	return d.closed
}

func (d *Dashboard) hasProjectLocked(projectID int) bool {
	for _, p := range d.projects {
		if p.ID == projectID {
			return true
		}
	}
	return false
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, errSuperseded) {
		return nil
	}
	return err
}

func copyFilters(src map[int]Filter) map[int]Filter {
	dst := make(map[int]Filter, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyStats(src map[int]*ProjectStats) map[int]*ProjectStats {
	dst := make(map[int]*ProjectStats, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
