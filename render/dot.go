// ABOUTME: Converts a node graph to DOT text with record-shaped nodes and port-to-port edges.
// ABOUTME: Renders DOT to SVG/PNG via graphviz, keeping each node at its editor position.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/2389-research/patchbay/graph"
)

// Export format tags.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ErrUnsupportedFormat is returned for a format no renderer produces.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ToDOT serializes nodes and connections into DOT digraph text. Nodes are records with
// one field per port and are pinned at their editor positions. Node order is sorted by
// ID and edge order by connection ID for reproducible output.
func ToDOT(nodes []graph.Node, conns []graph.Connection) string {
	var buf strings.Builder
	buf.WriteString("digraph patchbay {\n")
	writeAttrsBlock(&buf, map[string]string{"rankdir": "LR", "bgcolor": backgroundColor, "splines": "true"}, "")
	fmt.Fprintf(&buf, "  node [%s]\n", formatAttrs(map[string]string{
		"shape":     "record",
		"style":     "filled",
		"fillcolor": bodyColor,
		"color":     outlineColor,
		"fontcolor": textColor,
		"fontname":  "monospace",
	}))
	fmt.Fprintf(&buf, "  edge [%s]\n", formatAttrs(map[string]string{"color": wireColor}))

	nodes = append([]graph.Node(nil), nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	byID := make(map[graph.NodeID]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		writeNode(&buf, n)
	}

	conns = append([]graph.Connection(nil), conns...)
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	for _, c := range conns {
		writeEdge(&buf, c, byID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderGraph produces an export of the graph. Supported formats: "dot" (DOT text) and
// "svg" (shells out to graphviz). Raster output comes from Scene.PNG instead.
func RenderGraph(ctx context.Context, nodes []graph.Node, conns []graph.Connection, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(ToDOT(nodes, conns)), nil
	case FormatSVG:
		if len(nodes) == 0 {
			return nil, ErrEmptyScene
		}
		return RenderDOTSource(ctx, ToDOT(nodes, conns), format)
	default:
		return nil, fmt.Errorf("%w %q: supported formats are dot, svg", ErrUnsupportedFormat, format)
	}
}

// GraphvizAvailable checks whether the graphviz dot command is installed and reachable.
func GraphvizAvailable() bool {
	return graphvizAvailable()
}

func graphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// RenderDOTSource pipes DOT text to graphviz. Pinned positions are honoured, so the
// neato engine runs with -n. For "dot" format, it returns the input text as-is.
func RenderDOTSource(ctx context.Context, dotText string, format string) ([]byte, error) {
	if dotText == "" {
		return nil, fmt.Errorf("empty DOT source")
	}
	switch format {
	case FormatDOT:
		return []byte(dotText), nil
	case FormatSVG, FormatPNG:
	default:
		return nil, fmt.Errorf("%w %q: supported formats are dot, svg, png", ErrUnsupportedFormat, format)
	}
	if !graphvizAvailable() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-Kneato", "-n", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// writeNode writes a record node: inputs on the left, the name in the middle, outputs on the right.
func writeNode(buf *strings.Builder, n graph.Node) {
	label := fmt.Sprintf("{%s}|%s|{%s}",
		portFields(n.Inputs, "in"), escapeRecord(n.Name), portFields(n.Outputs, "out"))
	attrs := map[string]string{
		"label": label,
		// Graphviz y grows upward.
		"pos": fmt.Sprintf("%g,%g!", n.Position.Left, -n.Position.Top),
	}
	if n.Kind != "" {
		attrs["color"] = KindColor(n.Kind)
	}
	fmt.Fprintf(buf, "  %s [%s]\n", quoteID(string(n.ID)), formatAttrs(attrs))
}

func portFields(ports []graph.Port, prefix string) string {
	fields := make([]string, len(ports))
	for i, p := range ports {
		fields[i] = fmt.Sprintf("<%s%d> %s", prefix, i, escapeRecord(p.Label))
	}
	return strings.Join(fields, "|")
}

// writeEdge writes a port-to-port edge. Edges whose endpoints are missing are skipped.
func writeEdge(buf *strings.Builder, c graph.Connection, nodes map[graph.NodeID]graph.Node) {
	from, ok := nodes[c.FromNode]
	if !ok {
		return
	}
	to, ok := nodes[c.ToNode]
	if !ok {
		return
	}
	out := from.PortIndex(graph.Output, c.FromPort)
	in := to.PortIndex(graph.Input, c.ToPort)
	if out < 0 || in < 0 {
		return
	}
	fmt.Fprintf(buf, "  %s:out%d:e -> %s:in%d:w [%s]\n",
		quoteID(string(c.FromNode)), out, quoteID(string(c.ToNode)), in,
		formatAttrs(map[string]string{"id": string(c.ID)}))
}

// writeAttrsBlock writes graph-level attributes as individual lines.
func writeAttrsBlock(buf *strings.Builder, attrs map[string]string, indent string) {
	for _, k := range sortedKeys(attrs) {
		fmt.Fprintf(buf, "  %s%s=%s\n", indent, k, dotQuote(attrs[k]))
	}
}

// formatAttrs formats a map of attributes as a DOT attribute list (key="value", key="value").
func formatAttrs(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+dotQuote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// dotQuote wraps s in double quotes. Only quotes are escaped; graphviz hands other
// backslashes through to label parsing.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// escapeRecord escapes characters that delimit fields in a record label.
func escapeRecord(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`{}|<>\`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteID returns a DOT-safe identifier. Simple identifiers are returned as-is;
// identifiers that start with a digit or hold special characters are quoted.
func quoteID(id string) string {
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		return dotQuote(id)
	}
	for _, c := range id {
		if !isIDChar(c) {
			return dotQuote(id)
		}
	}
	return id
}

func isIDChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
