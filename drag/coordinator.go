// ABOUTME: Coordinator drives drag gestures against the registry and a painter.
// ABOUTME: Moves repaint only; geometry is committed to the registry on end and discarded on cancel.
package drag

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/route"
)

var (
	// ErrGestureActive indicates a start arrived while another gesture was in progress.
	ErrGestureActive = errors.New("drag gesture already active")

	// ErrNoGesture indicates a move, end, or cancel arrived with no gesture in progress.
	ErrNoGesture = errors.New("no active drag gesture")

	// ErrUnknownEvent indicates an event type the coordinator does not handle.
	ErrUnknownEvent = errors.New("unknown drag event type")
)

// Painter repaints a connection view. graph.Surface implementations satisfy it.
type Painter interface {
	ConnectionChanged(c graph.Connection)
}

// Coordinator turns a stream of pointer events into node moves and wire updates.
// It is single-threaded: each call runs to completion before the next is accepted.
type Coordinator struct {
	reg     *graph.Registry
	router  route.Router
	painter Painter
	gesture *Gesture
	last    State
}

// NewCoordinator creates a coordinator. painter may be nil.
func NewCoordinator(reg *graph.Registry, router route.Router, painter Painter) *Coordinator {
	return &Coordinator{reg: reg, router: router, painter: painter}
}

// State returns the phase of the current or most recent gesture.
func (c *Coordinator) State() State {
	if c.gesture != nil {
		return c.gesture.State
	}
	return c.last
}

// Gesture returns the active gesture, or nil.
func (c *Coordinator) Gesture() *Gesture {
	return c.gesture
}

// Start arms a gesture on node id with the pointer at p. Every connection of the node
// has its moving endpoint offsets captured here, once.
func (c *Coordinator) Start(id graph.NodeID, p geom.Point) error {
	if c.gesture != nil {
		return ErrGestureActive
	}
	n, err := c.reg.GetNode(id)
	if err != nil {
		return err
	}
	conns, err := c.reg.ConnectionsOf(id)
	if err != nil {
		return err
	}
	c.gesture = NewGesture(n, conns, p)
	return nil
}

// Move drags the node to follow the pointer and repaints its wires. The registry's
// stored connection geometry is left untouched until End.
func (c *Coordinator) Move(p geom.Point) error {
	g := c.gesture
	if g == nil {
		return ErrNoGesture
	}
	pos := g.Step(c.router, p)
	if err := c.reg.SetNodePosition(g.NodeID, pos); err != nil {
		return err
	}
	if c.painter != nil {
		for _, a := range g.Anchors {
			conn := a.Connection
			conn.Geometry = g.Pending[conn.ID]
			c.painter.ConnectionChanged(conn)
		}
	}
	return nil
}

// End commits the pending geometry of every touched connection to the registry.
// Connections removed during the gesture are skipped.
func (c *Coordinator) End() error {
	g := c.gesture
	if g == nil {
		return ErrNoGesture
	}
	var errs []error
	for _, a := range g.Anchors {
		path, ok := g.Pending[a.Connection.ID]
		if !ok {
			continue
		}
		stored, err := c.reg.GetConnection(a.Connection.ID)
		if errors.Is(err, graph.ErrConnectionNotFound) {
			continue
		}
		stored.Geometry = path
		if err := c.reg.SetConnection(stored.ID, stored); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", stored.ID, err))
		}
	}
	g.State = Committed
	c.finish(g)
	return errors.Join(errs...)
}

// Cancel abandons the gesture: the node returns to its origin and every touched wire
// is repainted from the registry's stored geometry. Nothing is committed.
func (c *Coordinator) Cancel() error {
	g := c.gesture
	if g == nil {
		return ErrNoGesture
	}
	err := c.reg.SetNodePosition(g.NodeID, g.Origin)
	if c.painter != nil {
		for _, a := range g.Anchors {
			if stored, gerr := c.reg.GetConnection(a.Connection.ID); gerr == nil {
				c.painter.ConnectionChanged(stored)
			}
		}
	}
	g.State = Cancelled
	c.finish(g)
	if errors.Is(err, graph.ErrNodeNotFound) {
		return nil
	}
	return err
}

func (c *Coordinator) finish(g *Gesture) {
	c.last = g.State
	c.gesture = nil
}

// Handle applies one input event.
func (c *Coordinator) Handle(ev Event) error {
	switch ev.Type {
	case EventStart:
		return c.Start(ev.NodeID, ev.Pointer)
	case EventMove:
		return c.Move(ev.Pointer)
	case EventEnd:
		return c.End()
	case EventCancel:
		return c.Cancel()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

// Run consumes events until the channel closes or ctx is done. A gesture still active
// at that point is cancelled. Per-event errors go to report, which may be nil.
func (c *Coordinator) Run(ctx context.Context, events <-chan Event, report func(Event, error)) error {
	defer func() {
		if c.gesture != nil {
			_ = c.Cancel()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Handle(ev); err != nil && report != nil {
				report(ev, err)
			}
		}
	}
}
