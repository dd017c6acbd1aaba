package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/render"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "ACTUATE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure of the host surface. Element IDs are
// replaced by stable per-tag names so snapshots survive remounts.
type Snapshot struct {
	Nodes []*SnapshotNode `json:"nodes"`
}

// SnapshotNode is one host node in a snapshot.
type SnapshotNode struct {
	ID       string            `json:"id"`
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the current host surface.
func (t *ViewTester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.host)
}

// CaptureSnapshot captures the host tree held by m.
func CaptureSnapshot(m *render.Memory) *Snapshot {
	counter := &tagCounter{}
	snap := &Snapshot{}
	for _, child := range m.Root().Children {
		snap.Nodes = append(snap.Nodes, captureNode(child, counter))
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When ACTUATE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a readable diff from other to s, or "" if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

// tagCounter assigns stable IDs like "div#0", "div#1", "#text#0".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureNode(n *render.HostNode, counter *tagCounter) *SnapshotNode {
	name := n.Tag
	if n.IsText() {
		name = "#text"
	}
	node := &SnapshotNode{
		ID:    counter.next(name),
		Tag:   n.Tag,
		Text:  n.Text,
		Attrs: attrsOrNil(n.Attrs),
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, captureNode(child, counter))
	}
	return node
}

func attrsOrNil(attrs core.Attrs) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	return maps.Clone(attrs)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
