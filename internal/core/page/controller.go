// Package page orchestrates the portfolio's feed sections: the initial
// concurrent load, the periodic refresh, and change notifications.
package page

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultRefreshInterval is how often every section is reloaded, independent of feed ttls
const DefaultRefreshInterval = 15 * time.Minute

// Pipeline loads and renders one section.
type Pipeline struct {
	// Load fetches the section's records and renders them. It must not fail;
	// feeds fall back internally.
	Load     func(ctx context.Context) template.HTML
	Name     string
	Skeleton template.HTML // shown while Load runs
}

// Update is sent to subscribers whenever a section's markup is swapped
type Update struct {
	Section string
	Markup  template.HTML
	Loading bool
}

type section struct {
	container *Container
	pipeline  Pipeline
}

// Controller owns the section containers and keeps them current.
type Controller struct {
	index    map[string]*section
	subs     map[int]func(Update)
	logger   *slog.Logger
	cancel   context.CancelFunc
	sections []*section
	wg       sync.WaitGroup
	interval time.Duration
	nextSub  int
	mu       sync.Mutex
}

// Option configures a Controller
type Option func(*Controller)

// WithRefreshInterval overrides DefaultRefreshInterval
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.interval = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a controller for pipelines. Section names must be unique.
func New(pipelines []Pipeline, opts ...Option) (*Controller, error) {
	c := &Controller{
		index:    make(map[string]*section),
		subs:     make(map[int]func(Update)),
		logger:   slog.Default(),
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, p := range pipelines {
		if p.Name == "" || p.Load == nil {
			return nil, fmt.Errorf("page section needs a name and a loader")
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate page section %q", p.Name)
		}
		s := &section{pipeline: p, container: NewContainer(p.Skeleton)}
		c.sections = append(c.sections, s)
		c.index[p.Name] = s
	}
	return c, nil
}

// Sections returns the section names in registration order
func (c *Controller) Sections() []string {
	names := make([]string, len(c.sections))
	for i, s := range c.sections {
		names[i] = s.pipeline.Name
	}
	return names
}

// Markup returns the current markup for a section
func (c *Controller) Markup(name string) (template.HTML, bool) {
	s, ok := c.index[name]
	if !ok {
		return "", false
	}
	return s.container.Markup(), true
}

// Load runs every section concurrently and returns when all have been swapped.
// Sections are independent: a slow or panicking section never holds back the others.
func (c *Controller) Load(ctx context.Context) {
	var g errgroup.Group
	for _, s := range c.sections {
		s := s
		g.Go(func() error {
			c.run(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
}

// run shows the skeleton, loads the section and swaps in the result
func (c *Controller) run(ctx context.Context, s *section) {
	name := s.pipeline.Name
	start := time.Now()

	s.container.Swap(s.pipeline.Skeleton)
	c.publish(Update{Section: name, Markup: s.pipeline.Skeleton, Loading: true})

	markup, err := safeLoad(ctx, s.pipeline.Load)
	if err != nil {
		c.logger.Error("page section failed to render", "section", name, "error", err)
		return
	}

	s.container.Swap(markup)
	c.publish(Update{Section: name, Markup: markup})
	c.logger.Debug("page section rendered", "section", name, "duration", time.Since(start))
}

func safeLoad(ctx context.Context, load func(context.Context) template.HTML) (markup template.HTML, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return load(ctx), nil
}

// Start refreshes every section on the controller's interval until Stop is
// called or ctx is cancelled. Ticks do not wait for a previous refresh to finish.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.logger.Info("refreshing page sections", "interval", c.interval)
				c.wg.Add(1)
				go func() {
					defer c.wg.Done()
					c.Load(ctx)
				}()
			}
		}
	}()
}

// Stop ends the refresh loop, cancels in-flight refreshes and waits for them to return.
// Safe to call more than once, or without Start.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Subscribe registers fn to receive every section update.
// fn runs on the refreshing goroutine and must not block.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Update)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

func (c *Controller) publish(u Update) {
	c.mu.Lock()
	fns := make([]func(Update), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
