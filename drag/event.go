// ABOUTME: Pointer events delivered by a drag input source.
package drag

import (
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
)

// EventType names a drag input event.
type EventType string

const (
	EventStart  EventType = "start"
	EventMove   EventType = "move"
	EventEnd    EventType = "end"
	EventCancel EventType = "cancel"
)

// Event is one pointer event. NodeID is only read for start events.
type Event struct {
	Type    EventType    `json:"type"`
	Pointer geom.Point   `json:"pointer"`
	NodeID  graph.NodeID `json:"node_id,omitempty"`
}
