// ABOUTME: Session owns one graph: registry, view adapter, scene, and drag coordinator under one mutex.
// ABOUTME: Every mutation logs a component=editor.session line and returns registry errors unchanged.
package editor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/2389-research/patchbay/config"
	"github.com/2389-research/patchbay/drag"
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/2389-research/patchbay/view"
)

// Session is a single editable graph. All methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	ID         string
	CreatedAt  time.Time
	LastAccess time.Time

	reg     *graph.Registry
	scene   *render.Scene
	adapter *view.Adapter
	drag    *drag.Coordinator
}

// GraphSnapshot is a point-in-time copy of a session's graph.
type GraphSnapshot struct {
	Nodes       []graph.Node       `json:"nodes"`
	Connections []graph.Connection `json:"connections"`
}

// DragStatus reports the coordinator after an event.
type DragStatus struct {
	State  string       `json:"state"`
	NodeID graph.NodeID `json:"node_id,omitempty"`
}

// NewSession builds an empty session whose scene uses layout.
func NewSession(id string, cfg config.Config, layout render.Layout) *Session {
	scene := render.NewScene(layout)
	scene.SetWireAlpha(cfg.Router.Tension)
	adapter := view.NewAdapter(scene)
	opts := append(cfg.RegistryOptions(), graph.WithSurface(adapter))
	reg := graph.NewRegistry(opts...)
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		LastAccess: now,
		reg:        reg,
		scene:      scene,
		adapter:    adapter,
		drag:       drag.NewCoordinator(reg, cfg.NewRouter(), adapter),
	}
}

// Seed runs fn against the session's registry under the session lock.
func (sess *Session) Seed(fn func(*graph.Registry) error) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess.reg); err != nil {
		return err
	}
	log.Printf("component=editor.session action=seed session=%s nodes=%d connections=%d",
		sess.ID, sess.reg.NodeCount(), sess.reg.ConnectionCount())
	return nil
}

// Snapshot copies the current graph.
func (sess *Session) Snapshot() GraphSnapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return GraphSnapshot{Nodes: sess.reg.Nodes(), Connections: sess.reg.Connections()}
}

// AddNode adds a node.
func (sess *Session) AddNode(spec graph.NodeSpec) (graph.Node, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	n, err := sess.reg.AddNode(spec)
	if err != nil {
		return graph.Node{}, err
	}
	log.Printf("component=editor.session action=add_node session=%s node_id=%s kind=%s", sess.ID, n.ID, n.Kind)
	return n, nil
}

// GetNode returns a node.
func (sess *Session) GetNode(id graph.NodeID) (graph.Node, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.reg.GetNode(id)
}

// MoveNode repositions a node and reroutes its connections. A drag in progress on
// the node, or on a node wired to it, is cancelled first.
func (sess *Session) MoveNode(id graph.NodeID, pos graph.Position) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cancelDragTouching(id)
	if err := sess.reg.MoveNode(id, pos); err != nil {
		return err
	}
	log.Printf("component=editor.session action=move_node session=%s node_id=%s top=%g left=%g",
		sess.ID, id, pos.Top, pos.Left)
	return nil
}

// RemoveNode removes a node and its connections. A drag in progress on the node,
// or on a node wired to it, is cancelled first.
func (sess *Session) RemoveNode(id graph.NodeID) (graph.Removal, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cancelDragTouching(id)
	removal, err := sess.reg.RemoveNode(id)
	if err != nil {
		return graph.Removal{}, err
	}
	log.Printf("component=editor.session action=remove_node session=%s node_id=%s connections=%d",
		sess.ID, id, len(removal.ConnectionIDs))
	return removal, nil
}

// Connect links two ports. A drag in progress on either endpoint is cancelled first,
// since the gesture only reroutes the connections it captured at start.
func (sess *Session) Connect(spec graph.ConnectionSpec) (graph.Connection, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.cancelDragOn(spec.FromNode)
	sess.cancelDragOn(spec.ToNode)
	c, err := sess.reg.Connect(spec)
	if err != nil {
		return graph.Connection{}, err
	}
	log.Printf("component=editor.session action=connect session=%s conn_id=%s from=%s.%s to=%s.%s",
		sess.ID, c.ID, c.FromNode, c.FromPort, c.ToNode, c.ToPort)
	return c, nil
}

// Disconnect removes a connection.
func (sess *Session) Disconnect(id graph.ConnectionID) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.reg.Disconnect(id); err != nil {
		return err
	}
	log.Printf("component=editor.session action=disconnect session=%s conn_id=%s", sess.ID, id)
	return nil
}

// Drag feeds one pointer event to the coordinator.
func (sess *Session) Drag(ev drag.Event) (DragStatus, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	err := sess.drag.Handle(ev)
	status := sess.dragStatus()
	if err != nil {
		return status, err
	}
	if ev.Type != drag.EventMove {
		log.Printf("component=editor.session action=drag_%s session=%s state=%s", ev.Type, sess.ID, status.State)
	}
	return status, nil
}

// DragStatus reports the coordinator's state.
func (sess *Session) DragStatus() DragStatus {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.dragStatus()
}

func (sess *Session) dragStatus() DragStatus {
	st := DragStatus{State: sess.drag.State().String()}
	if g := sess.drag.Gesture(); g != nil {
		st.NodeID = g.NodeID
	}
	return st
}

// cancelDragOn cancels a gesture dragging node id.
func (sess *Session) cancelDragOn(id graph.NodeID) {
	if g := sess.drag.Gesture(); g != nil && g.NodeID == id {
		sess.cancelDrag(g, id)
	}
}

// cancelDragTouching cancels a gesture dragging node id or holding a connection to
// it. Anchors keep the far endpoint from drag start, so moving it would be undone by End.
func (sess *Session) cancelDragTouching(id graph.NodeID) {
	g := sess.drag.Gesture()
	if g == nil {
		return
	}
	if g.NodeID == id {
		sess.cancelDrag(g, id)
		return
	}
	for _, a := range g.Anchors {
		if a.Connection.Touches(id) {
			sess.cancelDrag(g, id)
			return
		}
	}
}

func (sess *Session) cancelDrag(g *drag.Gesture, cause graph.NodeID) {
	_ = sess.drag.Cancel()
	log.Printf("component=editor.session action=drag_cancelled session=%s node_id=%s cause=%s",
		sess.ID, g.NodeID, cause)
}

// NodeAt returns the node whose header is under p, topmost first.
func (sess *Session) NodeAt(p geom.Point) (graph.NodeID, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	h, ok := sess.scene.HitHeader(p)
	if !ok {
		return "", false
	}
	return sess.adapter.NodeForHeader(h)
}

// Terminal draws the session's scene as styled text.
func (sess *Session) Terminal(width, height int) string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.scene.Terminal(width, height)
}

// Render draws the scene through the cache.
func (sess *Session) Render(ctx context.Context, cache *render.RenderCache, format string) ([]byte, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return cache.Render(ctx, sess.scene, format)
}

// Export writes the graph in a graphviz format.
func (sess *Session) Export(ctx context.Context, format string) ([]byte, error) {
	sess.mu.Lock()
	nodes, conns := sess.reg.Nodes(), sess.reg.Connections()
	sess.mu.Unlock()
	data, err := render.RenderGraph(ctx, nodes, conns, format)
	if err != nil {
		log.Printf("component=editor.session action=export session=%s format=%s err=%v", sess.ID, format, err)
		return nil, err
	}
	return data, nil
}

// Verify checks the registry's internal consistency.
func (sess *Session) Verify() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.reg.Verify()
}
