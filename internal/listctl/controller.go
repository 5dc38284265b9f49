package listctl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/bistro/internal/logging"
)

// DefaultDebounce is the quiet period after the last search edit before a fetch is issued.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by WaitIdle once the controller has been closed.
var ErrClosed = errors.New("list controller closed")

// FetchFunc loads one page of a backend collection.
// Any error collapses to a "fetch failed" outcome; the controller never retries.
type FetchFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

// Phase is the scheduling phase of a controller.
type Phase int

const (
	// PhaseIdle means no search edit is pending and the latest fetch has resolved.
	PhaseIdle Phase = iota
	// PhaseDebouncing means a search edit is waiting for its quiet period.
	PhaseDebouncing
	// PhaseFetching means the latest issued fetch has not resolved yet.
	PhaseFetching
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a controller.
type State[T any] struct {
	Items      []T
	Loading    bool
	Page       int
	TotalPages int
	TotalItems int
	Limit      int

	// Search is the text as typed; it reaches the backend once the debounce elapses.
	Search    string
	Filter    Filter
	SortBy    SortField
	SortOrder SortOrder

	Phase Phase
	// Err is the error of the last applied fetch. A failed fetch and an empty
	// collection both have no items; only Err tells them apart.
	Err error
	// Request is the sequence number of the fetch whose result is shown.
	Request uint64
}

// Config configures a Controller. Only Fetch is required.
type Config[T any] struct {
	Fetch FetchFunc[T]

	// Name identifies the list in logs, e.g. "orders".
	Name string

	ItemsPerPage int
	Debounce     time.Duration

	// SortFields and Filters are the closed sets accepted by SetSort and SetFilter.
	// Empty sets accept any value.
	SortFields []SortField
	Filters    []Filter

	DefaultSortBy    SortField
	DefaultSortOrder SortOrder

	// Initial is the query of the first fetch. Zero fields take the defaults; Limit is
	// ignored, and an unknown sort field or filter falls back to the default.
	Initial Query

	// Dependencies are opaque values owned outside the controller; see SetDependencies.
	Dependencies []any

	Logger *zerolog.Logger
	Clock  Clock

	// OnChange receives a snapshot after every transition, in transition order.
	// It must not block or call back into the controller.
	OnChange func(State[T])
	// OnError receives every fetch failure that is applied.
	OnError func(error)
}

// Controller keeps one paginated backend list in sync with its query state.
type Controller[T any] struct {
	fetch    FetchFunc[T]
	name     string
	limit    int
	debounce time.Duration
	sorts    fieldSet[SortField]
	filters  fieldSet[Filter]
	defSort  SortField
	defOrder SortOrder
	clock    Clock
	log      zerolog.Logger
	onChange func(State[T])
	onError  func(error)

	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool

	mu sync.Mutex

	page            int
	search          string
	committedSearch string
	filter          Filter
	sortBy          SortField
	sortOrder       SortOrder
	deps            []any

	items      []T
	totalPages int
	totalItems int
	loaded     bool
	err        error
	applied    uint64

	// pending is the single-slot debounce register; pendingGen invalidates timers that
	// fire after being replaced.
	pending    Timer
	pendingGen uint64
	seq        uint64
	inflight   bool
	closed     bool

	idle       chan struct{}
	idleClosed bool

	// notifyMu is taken before mu is released so observers see transitions in order.
	notifyMu sync.Mutex
}

// New creates a controller and immediately fetches the first page with default query values.
// The controller closes itself when ctx is done. With a ctx that is already done it is
// returned closed and never fetches.
func New[T any](ctx context.Context, cfg Config[T]) *Controller[T] {
	if cfg.Fetch == nil {
		panic("listctl: Config.Fetch is required")
	}

	c := &Controller[T]{
		fetch:      cfg.Fetch,
		name:       cfg.Name,
		limit:      cfg.ItemsPerPage,
		debounce:   cfg.Debounce,
		sorts:      newFieldSet(cfg.SortFields),
		filters:    newFieldSet(cfg.Filters),
		defSort:    cfg.DefaultSortBy,
		defOrder:   cfg.DefaultSortOrder,
		clock:      cfg.Clock,
		onChange:   cfg.OnChange,
		onError:    cfg.OnError,
		page:       DefaultPage,
		totalPages: 1,
		items:      []T{},
		deps:       slices.Clone(cfg.Dependencies),
		idle:       make(chan struct{}),
	}
	if c.limit <= 0 {
		c.limit = DefaultItemsPerPage
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.defSort == "" {
		c.defSort = DefaultSortField
	}
	if !c.defOrder.Valid() {
		c.defOrder = DefaultSortOrder
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	c.sortBy = c.defSort
	c.sortOrder = c.defOrder

	base := logging.FromContext(ctx)
	if cfg.Logger != nil {
		base = cfg.Logger
	}
	c.log = logging.ComponentLogger(*base, "listctl").With().Str("list", c.name).Logger()
	c.applyInitial(cfg.Initial)

	c.ctx, c.cancel = context.WithCancel(ctx)
	if ctx.Err() != nil {
		c.Close()
		return c
	}

	c.mu.Lock()
	c.stop = context.AfterFunc(ctx, c.Close)
	c.issueFetchLocked("init")
	c.commitLocked()
	return c
}

// applyInitial seeds the query state before the first fetch.
func (c *Controller[T]) applyInitial(q Query) {
	if q.Page > DefaultPage {
		c.page = q.Page
	}
	c.search = q.Search
	c.committedSearch = q.Search
	if q.Filter != FilterNone {
		if c.filters.contains(q.Filter) {
			c.filter = q.Filter
		} else {
			c.log.Warn().Str("filter", string(q.Filter)).Msg("ignoring unknown initial filter")
		}
	}
	if q.SortBy != "" {
		if c.sorts.contains(q.SortBy) {
			c.sortBy = q.SortBy
		} else {
			c.log.Warn().Str("sort_by", string(q.SortBy)).Msg("ignoring unknown initial sort field")
		}
	}
	if q.SortOrder.Valid() {
		c.sortOrder = q.SortOrder
	}
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetPage moves to page p and fetches it immediately. p is clamped to [1, TotalPages]
// once a result is known. Setting the current page is a no-op.
func (c *Controller[T]) SetPage(p int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	p = c.clampPageLocked(p)
	if p == c.page {
		c.mu.Unlock()
		return
	}
	c.page = p
	c.issueFetchLocked("page")
	c.commitLocked()
}

// NextPage moves one page forward, if there is one.
func (c *Controller[T]) NextPage() {
	c.SetPage(c.State().Page + 1)
}

// PrevPage moves one page back, if there is one.
func (c *Controller[T]) PrevPage() {
	c.SetPage(c.State().Page - 1)
}

// SetSearch records the search text and re-arms the debounce timer. The fetch is issued
// once no further edit arrives for the debounce interval.
func (c *Controller[T]) SetSearch(s string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = s
	c.cancelPendingLocked()
	gen := c.pendingGen
	c.pending = c.clock.AfterFunc(c.debounce, func() { c.debounceElapsed(gen) })
	c.commitLocked()
}

// SetFilter applies a filter, returns to page 1 and fetches immediately.
func (c *Controller[T]) SetFilter(f Filter) error {
	if f != FilterNone && !c.filters.contains(f) {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}

	c.mu.Lock()
	if c.closed || f == c.filter {
		c.mu.Unlock()
		return nil
	}
	c.filter = f
	c.page = DefaultPage
	c.issueFetchLocked("filter")
	c.commitLocked()
	return nil
}

// SetSort changes the sort field and order, returns to page 1 and fetches immediately.
func (c *Controller[T]) SetSort(field SortField, order SortOrder) error {
	if !c.sorts.contains(field) || field == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}
	if !order.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	c.mu.Lock()
	if c.closed || (field == c.sortBy && order == c.sortOrder) {
		c.mu.Unlock()
		return nil
	}
	c.sortBy = field
	c.sortOrder = order
	c.page = DefaultPage
	c.issueFetchLocked("sort")
	c.commitLocked()
	return nil
}

// SetDependencies replaces the external dependency values. Any difference from the
// previous sequence triggers an immediate fetch.
func (c *Controller[T]) SetDependencies(deps ...any) {
	c.mu.Lock()
	if c.closed || sameDependencies(c.deps, deps) {
		c.mu.Unlock()
		return
	}
	c.deps = slices.Clone(deps)
	c.issueFetchLocked("dependencies")
	c.commitLocked()
}

// ResetFilters restores search, filter and sort defaults and page 1, then fetches once.
// Nothing is fetched when the query is already at its defaults.
func (c *Controller[T]) ResetFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	hadPending := c.pending != nil
	c.cancelPendingLocked()

	atDefaults := c.search == "" && c.committedSearch == "" && c.filter == FilterNone &&
		c.sortBy == c.defSort && c.sortOrder == c.defOrder && c.page == DefaultPage

	c.search = ""
	c.committedSearch = ""
	c.filter = FilterNone
	c.sortBy = c.defSort
	c.sortOrder = c.defOrder
	c.page = DefaultPage

	if atDefaults {
		if hadPending {
			c.commitLocked()
			return
		}
		c.mu.Unlock()
		return
	}
	c.issueFetchLocked("reset")
	c.commitLocked()
}

// Refetch re-issues a fetch with the current query. A pending search edit is committed
// first instead of waiting for its quiet period.
func (c *Controller[T]) Refetch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.pending != nil {
		c.cancelPendingLocked()
		if c.search != c.committedSearch {
			c.committedSearch = c.search
			c.page = DefaultPage
		}
	}
	c.issueFetchLocked("refetch")
	c.commitLocked()
}

// WaitIdle blocks until the controller is idle and returns the snapshot at that point.
func (c *Controller[T]) WaitIdle(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		if c.closed {
			st := c.snapshotLocked()
			c.mu.Unlock()
			return st, ErrClosed
		}
		if c.phaseLocked() == PhaseIdle {
			st := c.snapshotLocked()
			c.mu.Unlock()
			return st, nil
		}
		idle := c.idle
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return c.State(), ctx.Err()
		case <-idle:
		}
	}
}

// Close stops the controller: the pending debounce is cancelled, in-flight fetches see a
// cancelled context and their results are never applied.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	c.inflight = false
	if !c.idleClosed {
		close(c.idle)
		c.idleClosed = true
	}
	c.cancel()
	if c.stop != nil {
		c.stop()
	}
	c.log.Debug().Msg("list controller closed")
}

// debounceElapsed commits the typed search. It resets the page to 1 and fetches in the
// same transition so a search on page 3 issues exactly one request, for page 1.
func (c *Controller[T]) debounceElapsed(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.pendingGen || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil

	if c.search != c.committedSearch {
		c.committedSearch = c.search
		if c.page != DefaultPage {
			c.log.Debug().Int("from_page", c.page).Msg("search changed, returning to first page")
			c.page = DefaultPage
		}
		c.issueFetchLocked("search")
	}
	c.commitLocked()
}

// issueFetchLocked starts a fetch for the current query and makes it the latest one.
func (c *Controller[T]) issueFetchLocked(reason string) {
	c.seq++
	token := c.seq
	c.inflight = true
	q := c.queryLocked()

	c.log.Debug().
		Uint64("request", token).
		Str("reason", reason).
		Int("page", q.Page).
		Int("limit", q.Limit).
		Str("search", q.Search).
		Str("filter", string(q.Filter)).
		Str("sort_by", string(q.SortBy)).
		Str("sort_order", string(q.SortOrder)).
		Msg("list fetch started")

	ctx := logging.ContextWithRequestID(c.ctx, logging.NewID())
	go c.run(ctx, token, q)
}

func (c *Controller[T]) run(ctx context.Context, token uint64, q Query) {
	res, err := c.safeFetch(ctx, q)
	c.complete(ctx, token, res, err)
}

// safeFetch converts a panicking FetchFunc into an error.
func (c *Controller[T]) safeFetch(ctx context.Context, q Query) (res Result[T], err error) { //nolint:nonamedreturns // Needed to recover.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list fetch panicked: %v", r)
		}
	}()
	return c.fetch(ctx, q)
}

func (c *Controller[T]) complete(ctx context.Context, token uint64, res Result[T], err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if token != c.seq {
		c.log.Debug().Ctx(ctx).Uint64("request", token).Uint64("latest", c.seq).
			Msg("discarding stale list response")
		c.mu.Unlock()
		return
	}

	c.inflight = false
	c.applied = token

	if err != nil {
		c.items = []T{}
		c.err = err
		c.log.Warn().Ctx(ctx).Err(err).Uint64("request", token).Msg("list fetch failed")
		onError := c.onError
		c.commitLocked()
		if onError != nil {
			onError(err)
		}
		return
	}

	res = res.normalize()
	c.items = res.Items
	c.totalPages = res.TotalPages
	c.totalItems = res.Total
	c.loaded = true
	c.err = nil

	c.log.Debug().Ctx(ctx).
		Uint64("request", token).
		Int("items", len(res.Items)).
		Int("total", res.Total).
		Int("total_pages", res.TotalPages).
		Msg("list fetch applied")

	if c.page > c.totalPages {
		c.log.Debug().Int("page", c.page).Int("total_pages", c.totalPages).
			Msg("page beyond last page, clamping")
		c.page = c.totalPages
		c.issueFetchLocked("clamp")
	}
	c.commitLocked()
}

// commitLocked finishes a transition: it updates the idle signal, releases mu and
// notifies the observer with the resulting snapshot.
func (c *Controller[T]) commitLocked() {
	idle := c.phaseLocked() == PhaseIdle
	switch {
	case idle && !c.idleClosed:
		close(c.idle)
		c.idleClosed = true
	case !idle && c.idleClosed:
		c.idle = make(chan struct{})
		c.idleClosed = false
	}

	if c.onChange == nil {
		c.mu.Unlock()
		return
	}
	st := c.snapshotLocked()
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	c.onChange(st)
}

func (c *Controller[T]) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.pendingGen++
}

func (c *Controller[T]) clampPageLocked(p int) int {
	if p < DefaultPage {
		p = DefaultPage
	}
	if c.loaded && p > c.totalPages {
		p = c.totalPages
	}
	return p
}

func (c *Controller[T]) queryLocked() Query {
	return Query{
		Page:      c.page,
		Limit:     c.limit,
		Search:    c.committedSearch,
		Filter:    c.filter,
		SortBy:    c.sortBy,
		SortOrder: c.sortOrder,
	}
}

func (c *Controller[T]) phaseLocked() Phase {
	switch {
	case c.closed:
		return PhaseIdle
	case c.pending != nil:
		return PhaseDebouncing
	case c.inflight:
		return PhaseFetching
	default:
		return PhaseIdle
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	return State[T]{
		Items:      slices.Clone(c.items),
		Loading:    c.inflight,
		Page:       c.page,
		TotalPages: c.totalPages,
		TotalItems: c.totalItems,
		Limit:      c.limit,
		Search:     c.search,
		Filter:     c.filter,
		SortBy:     c.sortBy,
		SortOrder:  c.sortOrder,
		Phase:      c.phaseLocked(),
		Err:        c.err,
		Request:    c.applied,
	}
}

// sameDependencies compares two dependency sequences element by element.
func sameDependencies(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
