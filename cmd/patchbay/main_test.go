// ABOUTME: Tests for the patchbay CLI covering snapshot output, check, config and blueprint
// ABOUTME: errors, version display, and the terminal seed scaling.
package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const twoNodeBlueprint = `
nodes:
  - key: a
    name: A
    position: {top: 20, left: 20}
    outputs: [{name: out, label: Out}]
  - key: b
    name: B
    position: {top: 20, left: 300}
    inputs: [{name: in, label: In}]
connections:
  - {from: a, output: out, to: b, input: in}
`

func TestSnapshotWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.png")
	code, stdout, stderr := runCLI("snapshot", "--out", out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "4 nodes, 6 connections") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() < 200 || b.Dy() < 200 {
		t.Errorf("suspiciously small image %v", b)
	}
}

func TestSnapshotCustomBlueprint(t *testing.T) {
	bp := writeTemp(t, "bp.yaml", twoNodeBlueprint)
	out := filepath.Join(t.TempDir(), "graph.png")
	code, stdout, stderr := runCLI("--blueprint", bp, "snapshot", "-o", out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "2 nodes, 1 connections") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCheck(t *testing.T) {
	code, stdout, stderr := runCLI("check")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "4 nodes, 6 connections") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCheckRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown config key", []string{"--config", writeTemp(t, "c.yaml", "bogus: 1\n"), "check"}, "bogus"},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "check"}, "read config"},
		{"dangling wire", []string{"--blueprint", writeTemp(t, "bp.yaml", "nodes: [{key: a, name: A}]\nconnections: [{from: a, output: out, to: z, input: in}]\n"), "check"}, "blueprint"},
		{"missing blueprint", []string{"--blueprint", filepath.Join(t.TempDir(), "nope.yaml"), "check"}, "nope.yaml"},
		{"extra argument", []string{"check", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			if code != 1 {
				t.Fatalf("exit %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr %q does not mention %q", stderr, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI("--version")
	if code != 0 || stdout != "patchbay dev\n" {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
}

func TestGraphName(t *testing.T) {
	if got := graphName(&options{}); got != "blueprint" {
		t.Errorf("default name = %q", got)
	}
	if got := graphName(&options{blueprintPath: "/tmp/flows/mixer.yaml"}); got != "mixer.yaml" {
		t.Errorf("file name = %q", got)
	}
}

func TestSnapshotDOT(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.dot")
	code, _, stderr := runCLI("snapshot", "--format", "dot", "--out", out)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph patchbay {") || strings.Count(string(data), "->") != 6 {
		t.Errorf("unexpected DOT:\n%s", data)
	}
}

func TestSnapshotUnknownFormat(t *testing.T) {
	code, _, stderr := runCLI("snapshot", "--format", "gif", "--out", filepath.Join(t.TempDir(), "x"))
	if code != 1 || !strings.Contains(stderr, "unsupported format") {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}
