// ABOUTME: Tests for the JSON shape of topology records.
package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/2389-research/patchbay/graph"
	"github.com/google/go-cmp/cmp"
)

func TestNodeJSON_Shape(t *testing.T) {
	n := graph.Node{
		ID:            "n1",
		Name:          "Split",
		Position:      graph.Position{Top: 190, Left: 50},
		Inputs:        []graph.Port{{Name: "input", Label: "Input", Direction: graph.Input}},
		Outputs:       []graph.Port{{Name: "first", Label: "First Index", Direction: graph.Output}},
		ConnectionIDs: graph.ConnectionSet{"c2": {}, "c1": {}},
	}
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"n1","name":"Split","position":{"top":190,"left":50},` +
		`"inputs":[{"name":"input","label":"Input","direction":"input"}],` +
		`"outputs":[{"name":"first","label":"First Index","direction":"output"}],` +
		`"connection_ids":["c1","c2"]}`
	if string(b) != want {
		t.Errorf("json = %s\nwant  %s", b, want)
	}

	var back graph.Node
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(n, back); diff != "" {
		t.Errorf("decoded node mismatch (-want +got):\n%s", diff)
	}
}

func TestDirection_RejectsUnknownText(t *testing.T) {
	var d graph.Direction
	if err := d.UnmarshalText([]byte("sideways")); err == nil {
		t.Errorf("expected an error")
	}
	if _, err := graph.Direction(7).MarshalText(); err == nil {
		t.Errorf("expected an error for an out-of-range direction")
	}
}
