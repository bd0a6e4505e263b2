package page

import (
	"html/template"
	"sync/atomic"
)

// Container holds the markup currently shown for one page section.
// Swap replaces the whole fragment at once; readers never observe a partial update.
type Container struct {
	markup atomic.Pointer[template.HTML]
}

// NewContainer creates a container showing initial
func NewContainer(initial template.HTML) *Container {
	c := &Container{}
	c.Swap(initial)
	return c
}

// Swap replaces the container's markup
func (c *Container) Swap(markup template.HTML) {
	c.markup.Store(&markup)
}

// Markup returns the current markup
func (c *Container) Markup() template.HTML {
	if m := c.markup.Load(); m != nil {
		return *m
	}
	return ""
}
