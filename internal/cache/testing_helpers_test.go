package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

type fakeOutputSpec struct{ ext string }

func (s fakeOutputSpec) Extension() string { return s.ext }

type fakeNode struct {
	id      string
	outputs []NamedOutput
}

func (n *fakeNode) ID() string             { return n.id }
func (n *fakeNode) Outputs() []NamedOutput { return n.outputs }

func newFakeNode(id string, outputs ...string) *fakeNode {
	named := make([]NamedOutput, 0, len(outputs))
	for _, o := range outputs {
		named = append(named, NamedOutput{Name: o, Spec: fakeOutputSpec{ext: ".jar"}})
	}
	return &fakeNode{id: id, outputs: named}
}

func mustKey(t *testing.T) *cachekey.CacheKey {
	t.Helper()
	k, err := cachekey.New("build", map[string]cachekey.AnnotatedValue{
		"src": cachekey.NewAnnotatedValue("deadbeef"),
	})
	if err != nil {
		t.Fatalf("cachekey.New: %v", err)
	}
	return k
}

func writeTemp(t *testing.T, dir, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(dir, "produced-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	return f.Name()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(data)
}

func scratchDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scratch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	return dir
}
