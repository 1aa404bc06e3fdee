package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/saturnines/userfeed/pkg/users"
)

// DefaultPageSize is the number of profiles requested per page.
const DefaultPageSize = 20

// ErrFetchInProgress is returned when a fetch or reload is attempted
// while another fetch on the same controller has not finished.
var ErrFetchInProgress = errors.New("pagination: fetch already in progress")

// PageFetcher retrieves one page of profiles.
type PageFetcher interface {
	FetchPage(ctx context.Context, quantity int) ([]users.UserProfile, error)
}

// State is a snapshot of the controller. Error is empty when the last
// fetch succeeded. Version grows with every change, so a subscriber can
// drop a snapshot older than one it already has.
type State struct {
	Users   []users.UserProfile
	Loading bool
	Error   string
	Version uint64
}

// HasError reports whether the last fetch failed.
func (s State) HasError() bool {
	return s.Error != ""
}

// Controller accumulates pages of profiles. At most one fetch runs at a
// time; extra attempts return ErrFetchInProgress without side effects.
type Controller struct {
	fetcher  PageFetcher
	pageSize int
	logger   zerolog.Logger

	mu          sync.Mutex
	profiles    []users.UserProfile
	loading     bool
	errMsg      string
	page        int
	version     uint64
	subscribers map[int]func(State)
	nextSubID   int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates an idle controller with an empty list.
func NewController(fetcher PageFetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:     fetcher,
		pageSize:    DefaultPageSize,
		logger:      zerolog.Nop(),
		page:        1,
		subscribers: make(map[int]func(State)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchNextPage fetches one page and appends it. The returned error is
// also recorded in the state.
func (c *Controller) FetchNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrFetchInProgress
	}
	c.loading = true
	c.errMsg = ""
	c.version++
	page := c.page
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return c.fetch(ctx, page)
}

// Reload drops everything and fetches the first page again. A failed
// reload leaves the list empty.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrFetchInProgress
	}
	c.loading = true
	c.page = 1
	c.profiles = nil
	c.errMsg = ""
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info().Msg("reloading user list")
	c.notify(snap)
	return c.fetch(ctx, 1)
}

// fetch runs the request without holding the lock. The caller must have
// set loading.
func (c *Controller) fetch(ctx context.Context, page int) error {
	c.logger.Debug().Int("page", page).Int("page_size", c.pageSize).Msg("fetching page")

	batch, err := c.fetcher.FetchPage(ctx, c.pageSize)

	c.mu.Lock()
	if err != nil {
		c.errMsg = err.Error()
	} else {
		c.profiles = append(c.profiles, batch...)
		c.page++
	}
	c.loading = false
	c.version++
	total := len(c.profiles)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Int("page", page).Msg("page fetch failed")
	} else {
		c.logger.Info().Int("page", page).Int("received", len(batch)).Int("total", total).Msg("page fetched")
	}

	c.notify(snap)
	return err
}

// ShouldFetchMore reports whether reaching candidate should trigger the
// next page: nothing is loading and candidate is the last profile.
func (c *Controller) ShouldFetchMore(candidate users.UserProfile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || len(c.profiles) == 0 {
		return false
	}
	return c.profiles[len(c.profiles)-1].ID == candidate.ID
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Page returns the cursor of the next page to fetch, starting at 1.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that performed the change, outside the lock.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) snapshotLocked() State {
	profiles := make([]users.UserProfile, len(c.profiles))
	copy(profiles, c.profiles)
	return State{
		Users:   profiles,
		Loading: c.loading,
		Error:   c.errMsg,
		Version: c.version,
	}
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}
