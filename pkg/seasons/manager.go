// Package seasons builds season standings reports from a data source for an
// explicitly selected year, caches them, and publishes refreshed reports.
package seasons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"f1champsstandings/pkg/pubsub"
	"f1champsstandings/pkg/standings"
)

const (
	// PubSubLatestTopic carries every refreshed report of the latest season
	// whose standings changed.
	PubSubLatestTopic = "standings-latest"
	pubSubSeasonTopic = "standings-"
)

// ErrNoSeasons is returned when the data source has no races at all.
var ErrNoSeasons = errors.New("no seasons available")

// Source supplies the race-results dataset.
type Source interface {
	Seasons(ctx context.Context) ([]int, error)
	StandingRows(ctx context.Context, year int) ([]standings.RaceStandingRow, error)
}

// Report is the ranked standings of one season.
type Report struct {
	Season      int                    `json:"season"`
	GeneratedAt time.Time              `json:"generated_at"`
	Standings   standings.RankedReport `json:"standings"`
}

// SeasonTopic is the pubsub topic of the refreshed reports of year.
func SeasonTopic(year int) string {
	return fmt.Sprintf("%s%d", pubSubSeasonTopic, year)
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithQueryTimeout bounds every call to the source.
func WithQueryTimeout(d time.Duration) Option {
	return func(m *Manager) { m.queryTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager caches reports under mu. Source calls run without holding it so
// one slow query never blocks readers of cached reports.
type Manager struct {
	mu           sync.Mutex
	refreshMu    sync.Mutex
	source       Source
	pubsubMgr    *pubsub.PubSub[Report]
	logger       *slog.Logger
	queryTimeout time.Duration
	now          func() time.Time
	seasons      []int
	reports      map[int]Report
	// generation changes on every successful Refresh; results fetched
	// under an older generation are not cached.
	generation uint64
}

func NewManager(source Source, pubsubMgr *pubsub.PubSub[Report], opts ...Option) *Manager {
	m := &Manager{
		source:    source,
		pubsubMgr: pubsubMgr,
		logger:    slog.Default(),
		now:       time.Now,
		reports:   make(map[int]Report),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seasons lists the available years, latest first.
func (m *Manager) Seasons(ctx context.Context) ([]int, error) {
	seasons, err := m.getSeasons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(seasons))
	copy(out, seasons)
	return out, nil
}

// LatestSeason returns the most recent year, the default selection.
func (m *Manager) LatestSeason(ctx context.Context) (int, error) {
	seasons, err := m.getSeasons(ctx)
	if err != nil {
		return 0, err
	}
	return latestOf(seasons)
}

// Report returns the standings of year.
func (m *Manager) Report(ctx context.Context, year int) (Report, error) {
	if year <= 0 {
		return Report{}, fmt.Errorf("season %d: %w", year, standings.ErrInvalidArgument)
	}

	m.mu.Lock()
	r, ok := m.reports[year]
	gen := m.generation
	m.mu.Unlock()
	if ok {
		return r, nil
	}

	r, err := m.build(ctx, year)
	if err != nil {
		return Report{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.reports[year]; ok {
		return cached, nil
	}
	if gen == m.generation {
		m.reports[year] = r
	}
	return r, nil
}

// Sync refreshes the latest season now and on every tick until exitChan
// is closed or ctx is done.
func (m *Manager) Sync(ctx context.Context, ticker *time.Ticker, exitChan <-chan bool) {
	m.doSync(ctx)
	go func() {
		for {
			select {
			case <-exitChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.doSync(ctx)
			}
		}
	}()
}

func (m *Manager) doSync(ctx context.Context) {
	r, changed, err := m.Refresh(ctx)
	if err != nil {
		m.logger.Error("refreshing standings", "error", err)
		return
	}
	m.logger.Info("standings refreshed",
		"season", r.Season,
		"drivers", len(r.Standings),
		"changed", changed)
}

// Refresh drops every cached report, rebuilds the latest season and
// publishes it when its standings differ from the previously built ones.
// A failed refresh leaves the cache untouched.
func (m *Manager) Refresh(ctx context.Context) (Report, bool, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	seasons, err := m.fetchSeasons(ctx)
	if err != nil {
		return Report{}, false, err
	}
	year, err := latestOf(seasons)
	if err != nil {
		return Report{}, false, err
	}
	r, err := m.build(ctx, year)
	if err != nil {
		return Report{}, false, err
	}

	m.mu.Lock()
	prev, had := m.reports[year]
	m.seasons = seasons
	m.reports = map[int]Report{year: r}
	m.generation++
	m.mu.Unlock()

	changed := had && !prev.Standings.Equal(r.Standings)
	if changed && m.pubsubMgr != nil {
		m.pubsubMgr.Publish(SeasonTopic(year), r)
		m.pubsubMgr.Publish(PubSubLatestTopic, r)
	}
	return r, changed, nil
}

func (m *Manager) getSeasons(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	seasons := m.seasons
	gen := m.generation
	m.mu.Unlock()
	if len(seasons) > 0 {
		return seasons, nil
	}

	seasons, err := m.fetchSeasons(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen == m.generation {
		m.seasons = seasons
	}
	return seasons, nil
}

func (m *Manager) fetchSeasons(ctx context.Context) ([]int, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.source.Seasons(ctx)
}

func latestOf(seasons []int) (int, error) {
	if len(seasons) == 0 {
		return 0, ErrNoSeasons
	}
	return seasons[0], nil
}

func (m *Manager) build(ctx context.Context, year int) (Report, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	rows, err := m.source.StandingRows(ctx, year)
	if err != nil {
		return Report{}, err
	}
	// a source may answer an empty season with a nil slice
	if rows == nil {
		rows = []standings.RaceStandingRow{}
	}
	ranked, err := standings.Build(rows)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Season:      year,
		GeneratedAt: m.now(),
		Standings:   ranked,
	}, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.queryTimeout)
}
