// Package viewstate holds the per-session state that sits between the
// presentation and the store: the live todo list (passed through untouched)
// and the in-memory list of attached image references.
//
// AddTodo and DeleteTodo are fire-and-forget. Each call runs on its own
// goroutine; there is no ordering between calls submitted concurrently, and
// callers only see the effect through the live list.
package viewstate

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/live"
	"github.com/idilsaglam/snaptodo/internal/logger"
	"github.com/idilsaglam/snaptodo/internal/model"
)

// ErrClosed is reported to the error handler for work submitted after Close.
var ErrClosed = errors.New("controller closed")

// Repository is the subset of the store the controller writes through.
type Repository interface {
	Insert(ctx context.Context, title string, createdAt time.Time) error
	DeleteByID(ctx context.Context, id int64) error
	Observe(ctx context.Context) <-chan []model.TodoItem
}

type Option func(*Controller)

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithErrorHandler receives storage failures from background writes.
// The handler may be called from any goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Controller) { c.onErr = fn }
}

type Controller struct {
	repo  Repository
	now   func() time.Time
	onErr func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	images []model.ImageRef
	feed   *live.Feed[[]model.ImageRef]
}

func New(repo Repository, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		repo:   repo,
		now:    time.Now,
		onErr:  func(error) {},
		ctx:    ctx,
		cancel: cancel,
		feed:   live.NewFeed[[]model.ImageRef](),
	}
	for _, o := range opts {
		o(c)
	}
	c.feed.Publish([]model.ImageRef{})
	return c
}

// AddTodo stamps createdAt now and inserts in the background.
// Titles are stored as given, empty ones included.
func (c *Controller) AddTodo(title string) {
	createdAt := c.now()
	c.submit("insert", func(ctx context.Context) error {
		return c.repo.Insert(ctx, title, createdAt)
	})
}

// DeleteTodo removes the todo in the background. Unknown ids are a no-op.
func (c *Controller) DeleteTodo(id int64) {
	c.submit("delete", func(ctx context.Context) error {
		return c.repo.DeleteByID(ctx, id)
	})
}

// AddImageRef appends ref to the session's image list and notifies observers.
func (c *Controller) AddImageRef(ref model.ImageRef) {
	c.mu.Lock()
	c.images = append(slices.Clip(c.images), ref)
	snapshot := slices.Clone(c.images)
	c.mu.Unlock()

	log.Debug().Str("id", ref.ID).Str("path", ref.Path).Str("source", string(ref.Source)).Msg("image attached")
	c.feed.Publish(snapshot)
}

// ImageRefs is a copy of the current image list in attach order.
func (c *Controller) ImageRefs() []model.ImageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.images)
}

// Todos is the store's live list, unchanged.
func (c *Controller) Todos(ctx context.Context) <-chan []model.TodoItem {
	return c.repo.Observe(ctx)
}

// Images is a live view of the image list; the current list arrives first.
func (c *Controller) Images(ctx context.Context) <-chan []model.ImageRef {
	return c.feed.Subscribe(ctx)
}

// Wait blocks until every write submitted so far has finished.
func (c *Controller) Wait() { c.wg.Wait() }

// Close waits for pending writes, then stops accepting new ones.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()
	c.cancel()
	c.feed.Close()
}

func (c *Controller) submit(op string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Warn().Str("op", op).Msg("write dropped: controller closed")
		c.onErr(ErrClosed)
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := fn(c.ctx); err != nil {
			logger.ErrorWithStack(err)
			c.onErr(err)
		}
	}()
}
