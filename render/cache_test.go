// ABOUTME: Tests for the render cache covering TTL-based expiry, cache hits, and concurrent access.
// ABOUTME: Validates RenderCache keys entries on the scene fingerprint and output format.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/view"
)

// fakeSceneRenderer is a test double that counts invocations and returns fixed output.
type fakeSceneRenderer struct {
	callCount atomic.Int64
	output    []byte
	err       error
}

func (f *fakeSceneRenderer) render(ctx context.Context, s *Scene, format string) ([]byte, error) {
	f.callCount.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func sceneWith(names ...string) *Scene {
	s := NewScene(PixelLayout)
	for i, name := range names {
		s.CreateNodeView(view.NodeView{
			Name:     name,
			Kind:     "function",
			Position: graph.Position{Top: 20, Left: 20 + 200*float64(i)},
			Inputs:   []graph.Port{{Name: "in", Label: "In", Direction: graph.Input}},
			Outputs:  []graph.Port{{Name: "out", Label: "Out", Direction: graph.Output}},
		})
	}
	return s
}

func TestRenderCacheReturnsCachedResult(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("png-bytes")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A", "B")
	ctx := context.Background()

	data1, err := cache.Render(ctx, scene, FormatPNG)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if string(data1) != "png-bytes" {
		t.Errorf("expected png-bytes, got %s", string(data1))
	}

	data2, err := cache.Render(ctx, scene, FormatPNG)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if string(data2) != "png-bytes" {
		t.Errorf("expected cached result, got %s", string(data2))
	}
	if renderer.callCount.Load() != 1 {
		t.Errorf("expected 1 renderer call (cached), got %d", renderer.callCount.Load())
	}
}

func TestRenderCacheSceneChangeMisses(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("output")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A")
	ctx := context.Background()

	cache.Render(ctx, scene, FormatPNG)
	box := scene.Nodes()[0]
	scene.MoveNodeView(box.Handles, graph.Position{Top: 60, Left: 60})
	cache.Render(ctx, scene, FormatPNG)

	if renderer.callCount.Load() != 2 {
		t.Errorf("expected 2 renderer calls after a move, got %d", renderer.callCount.Load())
	}
}

func TestRenderCacheDifferentFormatsDifferentEntries(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("output")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A")
	ctx := context.Background()

	cache.Render(ctx, scene, "png")
	cache.Render(ctx, scene, "txt")

	if renderer.callCount.Load() != 2 {
		t.Errorf("expected 2 renderer calls for different formats, got %d", renderer.callCount.Load())
	}
}

func TestRenderCacheTTLExpiry(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("output")}
	cache := NewRenderCache(renderer.render, time.Minute)
	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }
	scene := sceneWith("A")
	ctx := context.Background()

	cache.Render(ctx, scene, FormatPNG)
	now = now.Add(2 * time.Minute)
	cache.Render(ctx, scene, FormatPNG)

	if renderer.callCount.Load() != 2 {
		t.Errorf("expected 2 calls after TTL expiry, got %d", renderer.callCount.Load())
	}
}

func TestRenderCachePruneDropsExpired(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("output")}
	cache := NewRenderCache(renderer.render, time.Minute)
	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Render(ctx, sceneWith("A"), FormatPNG)
	now = now.Add(2 * time.Minute)
	cache.Render(ctx, sceneWith("B"), FormatPNG)

	if n := cache.Prune(); n != 1 {
		t.Errorf("expected 1 pruned entry, got %d", n)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", cache.Len())
	}
}

func TestRenderCacheDoesNotCacheErrors(t *testing.T) {
	renderer := &fakeSceneRenderer{err: fmt.Errorf("render failed")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A")
	ctx := context.Background()

	if _, err := cache.Render(ctx, scene, FormatPNG); err == nil {
		t.Fatal("expected error, got nil")
	}

	renderer.err = nil
	renderer.output = []byte("fixed output")

	data, err := cache.Render(ctx, scene, FormatPNG)
	if err != nil {
		t.Fatalf("expected success after fix, got: %v", err)
	}
	if string(data) != "fixed output" {
		t.Errorf("expected 'fixed output', got %s", string(data))
	}
}

func TestRenderCacheConcurrentAccess(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("concurrent output")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A", "B")
	ctx := context.Background()

	// Prime so every goroutine hits the cache.
	cache.Render(ctx, scene, FormatPNG)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Render(ctx, scene, FormatPNG)
			if err != nil {
				t.Errorf("concurrent call failed: %v", err)
				return
			}
			if string(data) != "concurrent output" {
				t.Errorf("expected 'concurrent output', got %s", string(data))
			}
		}()
	}
	wg.Wait()

	if renderer.callCount.Load() != 1 {
		t.Errorf("expected 1 renderer call, got %d", renderer.callCount.Load())
	}
}

func TestRenderCacheKeyIncludesFormatAndContent(t *testing.T) {
	fp := sceneWith("A").Fingerprint()
	expected := fmt.Sprintf("%x:%s", sha256.Sum256([]byte(fp)), "png")

	if key := cacheKey(fp, "png"); key != expected {
		t.Errorf("expected cache key %q, got %q", expected, key)
	}
}

func TestRenderCacheClear(t *testing.T) {
	renderer := &fakeSceneRenderer{output: []byte("out")}
	cache := NewRenderCache(renderer.render, 5*time.Minute)
	scene := sceneWith("A")
	ctx := context.Background()

	cache.Render(ctx, scene, FormatPNG)
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", cache.Len())
	}

	cache.Render(ctx, scene, FormatPNG)
	if renderer.callCount.Load() != 2 {
		t.Errorf("expected 2 renderer calls after clear, got %d", renderer.callCount.Load())
	}
}
