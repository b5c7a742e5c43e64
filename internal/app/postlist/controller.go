// Package postlist drives the posts dashboard: one fetch per activation, the
// mapped post list, and the create action gated on linking and sync state.
package postlist

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/postdesk/internal/app/postfeed"
	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/app/system/metrics"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"go.uber.org/zap"
)

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Source fetches the post list.
type Source interface {
	FetchPosts(ctx context.Context) (postfeed.ListDTO, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (postfeed.ListDTO, error)

func (f SourceFunc) FetchPosts(ctx context.Context) (postfeed.ListDTO, error) { return f(ctx) }

// NavigateOptions control a client-side navigation.
type NavigateOptions struct {
	Scroll bool
}

// Navigator performs navigation to path.
type Navigator func(path string, opts NavigateOptions)

// Result is what one successful fetch produced.
type Result struct {
	Posts      []PostViewModel
	Linked     gates.Linking
	SyncErrors []models.SyncError
}

// Controller owns one dashboard activation.
type Controller struct {
	src     Source
	mapPost Mapper
	nav     Navigator
	log     *zap.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	result *Result
	err    error
}

// Option configures a Controller.
type Option func(*Controller)

func WithMapper(m Mapper) Option            { return func(c *Controller) { c.mapPost = m } }
func WithMetrics(m *metrics.Metrics) Option { return func(c *Controller) { c.metrics = m } }
func WithLogger(l *zap.Logger) Option       { return func(c *Controller) { c.log = l } }

func NewController(src Source, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		src:     src,
		mapPost: MapPost,
		nav:     nav,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Activate starts the single fetch for this activation. It is a no-op unless
// the controller is idle.
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return
	}
	c.startLocked(ctx)
}

// Refresh discards the current result and fetches again.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.startLocked(ctx)
}

// Deactivate cancels any in-flight fetch and returns to idle. A fetch that
// resolves afterwards has no effect.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.state = StateIdle
	c.result = nil
	c.err = nil
}

// Wait blocks until the current fetch resolves or ctx ends.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) startLocked(ctx context.Context) {
	c.gen++
	gen := c.gen
	fctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.state = StateLoading
	c.result = nil
	c.err = nil
	c.cancel = cancel
	c.done = done

	go c.fetch(fctx, gen, done)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	start := time.Now()
	dto, err := c.src.FetchPosts(ctx)
	c.metrics.ObserveFetch(err, time.Since(start))

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("discarding stale post list fetch", zap.Uint64("gen", gen))
		return
	}
	c.cancel = nil

	if err != nil {
		c.state = StateError
		c.err = err
		c.log.Warn("post list fetch failed", zap.Error(err))
		c.metrics.ObserveGate(c.gateLocked().Reason())
		return
	}

	posts := make([]PostViewModel, 0, len(dto.Posts))
	for _, p := range dto.Posts {
		posts = append(posts, c.mapPost(p))
	}
	c.result = &Result{
		Posts:      posts,
		Linked:     gates.LinkingOf(dto.Linked),
		SyncErrors: dto.SyncErrors,
	}
	c.state = StateSuccess
	c.metrics.ObserveGate(c.gateLocked().Reason())
}

func (c *Controller) gateLocked() gates.CreateGate {
	if c.result == nil {
		return gates.CreatePost(gates.LinkingUnknown, nil)
	}
	return gates.CreatePost(c.result.Linked, c.result.SyncErrors)
}

// View returns a snapshot of the page.
func (c *Controller) View() Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	gate := c.gateLocked()
	ed := Editor{
		Err:       c.err,
		IsLoading: c.state == StateIdle || c.state == StateLoading,
		Posts:     []PostViewModel{},
	}
	if c.result != nil {
		ed.Posts = c.result.Posts
		ed.SyncErrors = c.result.SyncErrors
	}

	return Page{
		State: c.state,
		Gate:  gate,
		Header: Header{
			Title: PageTitle,
			Action: Action{
				Label:      CreateLabel,
				Path:       CreatePath,
				IsDisabled: !gate.Enabled,
				Tooltip:    gate.Message,
			},
		},
		Editor: ed,
	}
}

// ClickCreate navigates to the create form when the gate allows it and
// reports whether it did.
func (c *Controller) ClickCreate() bool {
	c.mu.Lock()
	gate := c.gateLocked()
	c.mu.Unlock()

	if !gate.Enabled || c.nav == nil {
		return false
	}
	c.nav(CreatePath, NavigateOptions{Scroll: false})
	return true
}
