// ABOUTME: Test suite for blueprint loading and the bundled demo seed
// ABOUTME: Covers YAML decoding, key checks, and applying a blueprint to a registry

package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/2389-research/patchbay/view"
)

func TestSeedBlueprintBuildsDemoGraph(t *testing.T) {
	scene := render.NewScene(render.PixelLayout)
	reg := graph.NewRegistry(graph.WithSurface(view.NewAdapter(scene)))

	ids, err := SeedBlueprint(reg)
	if err != nil {
		t.Fatalf("SeedBlueprint: %v", err)
	}
	if reg.NodeCount() != 4 || reg.ConnectionCount() != 6 {
		t.Fatalf("expected 4 nodes and 6 connections, got %d and %d", reg.NodeCount(), reg.ConnectionCount())
	}
	if err := reg.Verify(); err != nil {
		t.Fatalf("registry inconsistent: %v", err)
	}

	vector, err := reg.GetNode(ids["vector"])
	if err != nil {
		t.Fatal(err)
	}
	if vector.Name != "Make Vector" || vector.Kind != "expression" {
		t.Errorf("unexpected vector node: %+v", vector)
	}
	if len(vector.ConnectionIDs) != 4 {
		t.Errorf("Make Vector should have 4 connections, got %d", len(vector.ConnectionIDs))
	}

	split, _ := reg.GetNode(ids["split"])
	if split.Kind != "" {
		t.Errorf("Split has no kind, got %q", split.Kind)
	}

	// Every wire starts and ends on the port centres the scene measured.
	for _, c := range reg.Connections() {
		from, _ := reg.GetNode(c.FromNode)
		to, _ := reg.GetNode(c.ToNode)
		start := render.PixelLayout.PortCenter(from.Position, graph.Output, from.PortIndex(graph.Output, c.FromPort))
		end := render.PixelLayout.PortCenter(to.Position, graph.Input, to.PortIndex(graph.Input, c.ToPort))
		if c.Geometry.Start() != start || c.Geometry.End() != end {
			t.Errorf("%s.%s -> %s.%s routed %v", from.Name, c.FromPort, to.Name, c.ToPort, c.Geometry)
		}
	}
}

func TestSeedBlueprintTwiceIsIndependent(t *testing.T) {
	reg := graph.NewRegistry()
	first, err := SeedBlueprint(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := SeedBlueprint(reg)
	if err != nil {
		t.Fatal(err)
	}
	if first["split"] == second["split"] {
		t.Errorf("seeding twice reused node id %s", first["split"])
	}
	if reg.NodeCount() != 8 {
		t.Errorf("expected 8 nodes, got %d", reg.NodeCount())
	}
}

func TestLoadBlueprintRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"missing key": `
nodes:
  - name: A
`,
		"duplicate key": `
nodes:
  - {key: a, name: A}
  - {key: a, name: B}
`,
		"unknown reference": `
nodes:
  - {key: a, name: A}
connections:
  - {from: a, output: o, to: b, input: i}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBlueprint(strings.NewReader(doc))
			if !errors.Is(err, ErrInvalidBlueprint) {
				t.Errorf("expected ErrInvalidBlueprint, got %v", err)
			}
		})
	}

	if _, err := LoadBlueprint(strings.NewReader("nodes:\n  - {key: a, colour: red}\n")); err == nil {
		t.Errorf("expected unknown field error")
	}
}

func TestBlueprintApplyReportsRegistryErrors(t *testing.T) {
	doc := `
nodes:
  - key: a
    name: A
    outputs: [{name: out}]
  - key: b
    name: B
    inputs: [{name: in}]
connections:
  - {from: a, output: out, to: b, input: nope}
`
	bp, err := LoadBlueprint(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	reg := graph.NewRegistry()
	ids, err := bp.Apply(reg)
	if !errors.Is(err, graph.ErrPortNotFound) {
		t.Fatalf("expected ErrPortNotFound, got %v", err)
	}
	if len(ids) != 2 || reg.ConnectionCount() != 0 {
		t.Errorf("expected both nodes added and no connections, got %v and %d", ids, reg.ConnectionCount())
	}
}

func TestBlueprintScaledRoundsPositions(t *testing.T) {
	bp, err := LoadDemo()
	if err != nil {
		t.Fatal(err)
	}
	cells := bp.Scaled(1.0/8, 1.0/16)
	if got := cells.Nodes[0].Position; got != (graph.Position{Top: 3, Left: 75}) {
		t.Errorf("interactor at %+v", got)
	}
	if bp.Nodes[0].Position != (graph.Position{Top: 50, Left: 600}) {
		t.Errorf("Scaled modified the original")
	}
	if len(cells.Connections) != 6 {
		t.Errorf("connections lost in scaling")
	}
}
