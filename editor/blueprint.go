// ABOUTME: Blueprints are YAML documents of node and connection specs keyed by local names.
// ABOUTME: SeedBlueprint builds the bundled demo graph into a caller-supplied registry.
package editor

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/2389-research/patchbay/graph"
	"gopkg.in/yaml.v3"
)

// DemoBlueprint is the bundled seed graph name.
const DemoBlueprint = "blueprint"

// ErrInvalidBlueprint reports a blueprint whose keys or references do not line up.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

// Blueprint is an authorable graph: node specs plus connections between them by key.
type Blueprint struct {
	Nodes       []BlueprintNode `yaml:"nodes"`
	Connections []BlueprintWire `yaml:"connections"`
}

// BlueprintNode is a node spec with a document-local key.
type BlueprintNode struct {
	Key            string `yaml:"key"`
	graph.NodeSpec `yaml:",inline"`
}

// BlueprintWire connects two nodes by key.
type BlueprintWire struct {
	From   string `yaml:"from"`
	Output string `yaml:"output"`
	To     string `yaml:"to"`
	Input  string `yaml:"input"`
}

// LoadBlueprint decodes and checks a blueprint.
func LoadBlueprint(r io.Reader) (Blueprint, error) {
	var bp Blueprint
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bp); err != nil && !errors.Is(err, io.EOF) {
		return Blueprint{}, fmt.Errorf("decode blueprint: %w", err)
	}
	if err := bp.Check(); err != nil {
		return Blueprint{}, err
	}
	return bp, nil
}

// Check verifies that keys are unique and every wire names known keys.
// Port names are left to the registry.
func (bp Blueprint) Check() error {
	keys := make(map[string]bool, len(bp.Nodes))
	for i, n := range bp.Nodes {
		if n.Key == "" {
			return fmt.Errorf("%w: node %d has no key", ErrInvalidBlueprint, i)
		}
		if keys[n.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidBlueprint, n.Key)
		}
		keys[n.Key] = true
	}
	for i, w := range bp.Connections {
		for _, k := range []string{w.From, w.To} {
			if !keys[k] {
				return fmt.Errorf("%w: connection %d references unknown node %q", ErrInvalidBlueprint, i, k)
			}
		}
	}
	return nil
}

// Apply adds the blueprint's nodes, then its connections, to reg. It returns the id
// assigned to each key. Apply stops at the first registry error; anything already
// added stays in the registry.
func (bp Blueprint) Apply(reg *graph.Registry) (map[string]graph.NodeID, error) {
	if err := bp.Check(); err != nil {
		return nil, err
	}
	ids := make(map[string]graph.NodeID, len(bp.Nodes))
	for _, n := range bp.Nodes {
		node, err := reg.AddNode(n.NodeSpec)
		if err != nil {
			return ids, fmt.Errorf("node %q: %w", n.Key, err)
		}
		ids[n.Key] = node.ID
	}
	for _, w := range bp.Connections {
		_, err := reg.Connect(graph.ConnectionSpec{
			FromNode: ids[w.From],
			FromPort: w.Output,
			ToNode:   ids[w.To],
			ToPort:   w.Input,
		})
		if err != nil {
			return ids, fmt.Errorf("connection %s.%s -> %s.%s: %w", w.From, w.Output, w.To, w.Input, err)
		}
	}
	return ids, nil
}

// Scaled returns a copy with every node position multiplied by (sx, sy) and rounded,
// for drawing a pixel-authored blueprint on a coarser grid.
func (bp Blueprint) Scaled(sx, sy float64) Blueprint {
	out := Blueprint{
		Nodes:       make([]BlueprintNode, len(bp.Nodes)),
		Connections: append([]BlueprintWire(nil), bp.Connections...),
	}
	for i, n := range bp.Nodes {
		n.Position = graph.Position{
			Top:  math.Round(n.Position.Top * sy),
			Left: math.Round(n.Position.Left * sx),
		}
		out.Nodes[i] = n
	}
	return out
}

// LoadDemo returns the bundled demo blueprint.
func LoadDemo() (Blueprint, error) {
	f, err := BlueprintFS.Open("blueprints/demo.yaml")
	if err != nil {
		return Blueprint{}, err
	}
	defer f.Close()
	return LoadBlueprint(f)
}

// SeedBlueprint builds the bundled demo graph into reg.
func SeedBlueprint(reg *graph.Registry) (map[string]graph.NodeID, error) {
	bp, err := LoadDemo()
	if err != nil {
		return nil, err
	}
	return bp.Apply(reg)
}
