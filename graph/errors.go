// ABOUTME: Failure kinds reported by registry operations.
// ABOUTME: Sentinels for errors.Is checks plus typed errors carrying the offending ids.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeNotFound indicates the referenced node id is not in the registry.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPortNotFound indicates a named port is missing on its node.
	ErrPortNotFound = errors.New("port not found")

	// ErrConnectionNotFound indicates the referenced connection id is not in the registry.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrPortAlreadyConnected indicates an input port already has an incoming connection.
	ErrPortAlreadyConnected = errors.New("input port already connected")

	// ErrInvalidSpec indicates a malformed node spec.
	ErrInvalidSpec = errors.New("invalid node spec")
)

// Side names which end of a connection an error refers to.
type Side int

const (
	// Inlet is the input port on the connection's target node.
	Inlet Side = iota
	// Outlet is the output port on the connection's source node.
	Outlet
)

func (s Side) String() string {
	if s == Outlet {
		return "outlet"
	}
	return "inlet"
}

// NodeNotFoundError reports a missing node.
type NodeNotFoundError struct {
	ID NodeID
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

func (e *NodeNotFoundError) Is(target error) bool { return target == ErrNodeNotFound }

// PortNotFoundError reports a missing inlet or outlet.
type PortNotFoundError struct {
	NodeID NodeID
	Port   string
	Side   Side
}

func (e *PortNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found on node %s", e.Side, e.Port, e.NodeID)
}

func (e *PortNotFoundError) Is(target error) bool { return target == ErrPortNotFound }

// ConnectionNotFoundError reports a missing connection.
type ConnectionNotFoundError struct {
	ID ConnectionID
}

func (e *ConnectionNotFoundError) Error() string {
	return fmt.Sprintf("connection not found: %s", e.ID)
}

func (e *ConnectionNotFoundError) Is(target error) bool { return target == ErrConnectionNotFound }

// PortAlreadyConnectedError reports a second incoming connection on an input port.
type PortAlreadyConnectedError struct {
	NodeID   NodeID
	Port     string
	Existing ConnectionID
}

func (e *PortAlreadyConnectedError) Error() string {
	return fmt.Sprintf("inlet %q on node %s already connected by %s", e.Port, e.NodeID, e.Existing)
}

func (e *PortAlreadyConnectedError) Is(target error) bool { return target == ErrPortAlreadyConnected }
