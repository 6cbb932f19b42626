// ABOUTME: Tests for the editor request logger.
// ABOUTME: Captures the standard logger and checks route and session fields.

package editor

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})
	return &buf
}

func requestLines(buf *bytes.Buffer) []string {
	var out []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "component=editor.http ") {
			out = append(out, line)
		}
	}
	return out
}

func TestRequestLoggerRecordsRouteAndSession(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv, "")
	buf := captureLog(t)

	w := do(t, srv, http.MethodGet, "/sessions/"+id+"/graph", nil)
	expectStatus(t, w, http.StatusOK)

	lines := requestLines(buf)
	if len(lines) != 1 {
		t.Fatalf("expected one request line, got %q", lines)
	}
	for _, want := range []string{
		"method=GET",
		"route=/sessions/{id}/graph",
		"session=" + id,
		"status=200",
	} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("request line %q missing %q", lines[0], want)
		}
	}
}

func TestRequestLoggerRecordsErrorStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	buf := captureLog(t)

	w := do(t, srv, http.MethodGet, "/sessions/nope/nodes/n1", nil)
	expectStatus(t, w, http.StatusNotFound)

	lines := requestLines(buf)
	if len(lines) != 1 {
		t.Fatalf("expected one request line, got %q", lines)
	}
	for _, want := range []string{
		"route=/sessions/{id}/nodes/{nodeID}",
		"session=nope",
		"node_id=n1",
		"status=404",
	} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("request line %q missing %q", lines[0], want)
		}
	}
}

func TestRequestLoggerOmitsSessionOutsideSessionRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	buf := captureLog(t)

	do(t, srv, http.MethodPost, "/sessions", nil)

	lines := requestLines(buf)
	if len(lines) != 1 {
		t.Fatalf("expected one request line, got %q", lines)
	}
	if !strings.Contains(lines[0], "route=/sessions ") {
		t.Errorf("request line %q missing route", lines[0])
	}
	if strings.Contains(lines[0], "session=") {
		t.Errorf("request line %q should not carry a session", lines[0])
	}
}
