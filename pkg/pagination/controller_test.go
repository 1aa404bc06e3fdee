package pagination

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/saturnines/userfeed/pkg/users"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Helpers

func profile(first, last string, age int) users.UserProfile {
	return users.UserProfile{
		ID:   uuid.New(),
		Name: users.Name{Title: "Mx", First: first, Last: last},
		DOB:  users.DOB{Date: "1990-01-01", Age: age},
	}
}

// scriptedFetcher returns queued pages in order and records quantities.
type scriptedFetcher struct {
	mu         sync.Mutex
	pages      [][]users.UserProfile
	errs       []error
	quantities []int
}

func (f *scriptedFetcher) FetchPage(ctx context.Context, quantity int) ([]users.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quantities = append(f.quantities, quantity)
	var page []users.UserProfile
	var err error
	if len(f.pages) > 0 {
		page, f.pages = f.pages[0], f.pages[1:]
	}
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (f *scriptedFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.quantities)
}

// blockingFetcher holds every call until release is closed.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
	page    []users.UserProfile
	mu      sync.Mutex
	count   int
}

func newBlockingFetcher(page []users.UserProfile) *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		page:    page,
	}
}

func (f *blockingFetcher) FetchPage(ctx context.Context, quantity int) ([]users.UserProfile, error) {
	f.mu.Lock()
	f.count++
	f.mu.Unlock()
	f.started <- struct{}{}
	<-f.release
	return f.page, nil
}

func (f *blockingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Tests

func TestNewController_InitialState(t *testing.T) {
	c := NewController(&scriptedFetcher{})

	s := c.Snapshot()
	assert.Empty(t, s.Users)
	assert.False(t, s.Loading)
	assert.False(t, s.HasError())
	assert.Equal(t, 1, c.Page())
}

func TestFetchNextPage_Success(t *testing.T) {
	john := profile("John", "Doe", 31)
	jane := profile("Jane", "Smith", 26)
	f := &scriptedFetcher{pages: [][]users.UserProfile{{john, jane}}}
	c := NewController(f)

	require.NoError(t, c.FetchNextPage(context.Background()))

	s := c.Snapshot()
	require.Len(t, s.Users, 2)
	assert.Equal(t, "John", s.Users[0].Name.First)
	assert.Equal(t, "Doe", s.Users[0].Name.Last)
	assert.Equal(t, 31, s.Users[0].DOB.Age)
	assert.Equal(t, "Jane", s.Users[1].Name.First)
	assert.Equal(t, "Smith", s.Users[1].Name.Last)
	assert.Equal(t, 26, s.Users[1].DOB.Age)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, []int{DefaultPageSize}, f.quantities)
}

func TestFetchNextPage_AppendsPages(t *testing.T) {
	a, b, cc := profile("A", "A", 1), profile("B", "B", 2), profile("C", "C", 3)
	f := &scriptedFetcher{pages: [][]users.UserProfile{{a, b}, {cc}}}
	c := NewController(f)

	require.NoError(t, c.FetchNextPage(context.Background()))
	require.NoError(t, c.FetchNextPage(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, []users.UserProfile{a, b, cc}, s.Users)
	assert.Equal(t, 3, c.Page())
}

func TestFetchNextPage_GrowthMatchesPageLength(t *testing.T) {
	sizes := []int{20, 7, 0, 13}
	var pages [][]users.UserProfile
	for _, n := range sizes {
		page := make([]users.UserProfile, n)
		for i := range page {
			page[i] = profile("P", "Q", i)
		}
		pages = append(pages, page)
	}
	c := NewController(&scriptedFetcher{pages: pages})

	for i, n := range sizes {
		before := len(c.Snapshot().Users)
		cursor := c.Page()

		require.NoError(t, c.FetchNextPage(context.Background()))

		assert.Equal(t, before+n, len(c.Snapshot().Users), "page %d", i)
		assert.Equal(t, cursor+1, c.Page(), "page %d", i)
	}
}

func TestFetchNextPage_TimeoutKeepsList(t *testing.T) {
	f := &scriptedFetcher{errs: []error{context.DeadlineExceeded}}
	c := NewController(f)

	err := c.FetchNextPage(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	s := c.Snapshot()
	assert.Empty(t, s.Users)
	assert.False(t, s.Loading)
	assert.True(t, s.HasError())
	assert.Equal(t, 1, c.Page())
}

func TestFetchNextPage_FailureLeavesAccumulatedProfiles(t *testing.T) {
	a := profile("A", "A", 1)
	f := &scriptedFetcher{
		pages: [][]users.UserProfile{{a}},
		errs:  []error{nil, errors.New("invalid character '<' looking for beginning of value")},
	}
	c := NewController(f)

	require.NoError(t, c.FetchNextPage(context.Background()))
	require.Error(t, c.FetchNextPage(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, []users.UserProfile{a}, s.Users)
	assert.Equal(t, "invalid character '<' looking for beginning of value", s.Error)
	assert.Equal(t, 2, c.Page())
}

func TestFetchNextPage_ClearsPreviousError(t *testing.T) {
	f := &scriptedFetcher{
		pages: [][]users.UserProfile{nil, {profile("A", "A", 1)}},
		errs:  []error{errors.New("boom"), nil},
	}
	c := NewController(f)

	require.Error(t, c.FetchNextPage(context.Background()))
	require.NoError(t, c.FetchNextPage(context.Background()))

	s := c.Snapshot()
	assert.Empty(t, s.Error)
	assert.Len(t, s.Users, 1)
}

func TestFetchNextPage_SecondCallWhilePendingIsNoop(t *testing.T) {
	a := profile("A", "A", 1)
	f := newBlockingFetcher([]users.UserProfile{a})
	c := NewController(f)

	done := make(chan error, 1)
	go func() { done <- c.FetchNextPage(context.Background()) }()
	<-f.started

	before := c.Snapshot()
	assert.True(t, before.Loading)

	assert.ErrorIs(t, c.FetchNextPage(context.Background()), ErrFetchInProgress)
	assert.ErrorIs(t, c.Reload(context.Background()), ErrFetchInProgress)
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, 1, f.calls())

	close(f.release)
	require.NoError(t, <-done)

	s := c.Snapshot()
	assert.False(t, s.Loading)
	assert.Equal(t, []users.UserProfile{a}, s.Users)
	assert.Equal(t, 1, f.calls())
}

func TestShouldFetchMore(t *testing.T) {
	a, b := profile("A", "A", 1), profile("B", "B", 2)
	c := NewController(&scriptedFetcher{pages: [][]users.UserProfile{{a, b}}})

	assert.False(t, c.ShouldFetchMore(a), "empty list never asks for more")

	require.NoError(t, c.FetchNextPage(context.Background()))

	assert.True(t, c.ShouldFetchMore(b))
	assert.False(t, c.ShouldFetchMore(a))

	twin := b
	twin.ID = uuid.New()
	assert.False(t, c.ShouldFetchMore(twin), "identity, not field equality")
}

func TestShouldFetchMore_FalseWhileLoading(t *testing.T) {
	last := profile("Z", "Z", 9)
	f := newBlockingFetcher([]users.UserProfile{last})
	c := NewController(f)

	go func() { _ = c.FetchNextPage(context.Background()) }()
	<-f.started
	f.release <- struct{}{}
	require.Eventually(t, func() bool { return !c.Snapshot().Loading }, time.Second, time.Millisecond)
	require.True(t, c.ShouldFetchMore(last))

	done := make(chan struct{})
	go func() {
		_ = c.FetchNextPage(context.Background())
		close(done)
	}()
	<-f.started

	assert.False(t, c.ShouldFetchMore(last))
	for _, u := range c.Snapshot().Users {
		assert.False(t, c.ShouldFetchMore(u))
	}

	close(f.release)
	<-done
}

func TestReload_ReplacesList(t *testing.T) {
	a, b, cc := profile("A", "A", 1), profile("B", "B", 2), profile("C", "C", 3)
	d := profile("D", "D", 4)
	f := &scriptedFetcher{pages: [][]users.UserProfile{{a, b}, {cc}, {d}}}
	c := NewController(f)

	require.NoError(t, c.FetchNextPage(context.Background()))
	require.NoError(t, c.FetchNextPage(context.Background()))
	require.Equal(t, 3, c.Page())

	require.NoError(t, c.Reload(context.Background()))

	s := c.Snapshot()
	assert.Equal(t, []users.UserProfile{d}, s.Users)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, 2, c.Page())
}

func TestReload_FailureLeavesEmptyList(t *testing.T) {
	f := &scriptedFetcher{
		pages: [][]users.UserProfile{{profile("A", "A", 1)}},
		errs:  []error{nil, errors.New("HTTP 503: 503 Service Unavailable")},
	}
	c := NewController(f)

	require.NoError(t, c.FetchNextPage(context.Background()))
	require.Error(t, c.Reload(context.Background()))

	s := c.Snapshot()
	assert.Empty(t, s.Users)
	assert.Equal(t, "HTTP 503: 503 Service Unavailable", s.Error)
	assert.False(t, s.Loading)
	assert.Equal(t, 1, c.Page())
}

func TestSubscribe_ReceivesEveryChange(t *testing.T) {
	a := profile("A", "A", 1)
	c := NewController(&scriptedFetcher{pages: [][]users.UserProfile{{a}}})

	var got []State
	unsubscribe := c.Subscribe(func(s State) { got = append(got, s) })

	require.NoError(t, c.FetchNextPage(context.Background()))

	require.Len(t, got, 2)
	assert.True(t, got[0].Loading)
	assert.Empty(t, got[0].Users)
	assert.False(t, got[1].Loading)
	assert.Equal(t, []users.UserProfile{a}, got[1].Users)
	assert.Less(t, got[0].Version, got[1].Version)

	unsubscribe()
	_ = c.FetchNextPage(context.Background())
	assert.Len(t, got, 2)
}

func TestSnapshot_IsACopy(t *testing.T) {
	a := profile("A", "A", 1)
	c := NewController(&scriptedFetcher{pages: [][]users.UserProfile{{a}}})
	require.NoError(t, c.FetchNextPage(context.Background()))

	s := c.Snapshot()
	s.Users[0] = profile("X", "X", 0)

	assert.Equal(t, a, c.Snapshot().Users[0])
}

func TestWithPageSize(t *testing.T) {
	f := &scriptedFetcher{}
	c := NewController(f, WithPageSize(5), WithPageSize(-1))

	require.NoError(t, c.FetchNextPage(context.Background()))
	assert.Equal(t, []int{5}, f.quantities)
	assert.Equal(t, 1, f.calls())
}
