package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// LoadDocument reads a raw form fixture into an ordered node tree.
func LoadDocument(t *testing.T, path string) *rawdoc.Node {
	t.Helper()

	node, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return node
}

// LoadDocumentFromPath returns the parsed fixture without requiring testing.T.
func LoadDocumentFromPath(path string) (*rawdoc.Node, error) {
	if path == "" {
		return nil, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read document: %w", err)
	}
	node, err := rawdoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse document: %w", err)
	}
	return node, nil
}

// MustBuildForm normalizes a fixture with the default builder.
func MustBuildForm(t *testing.T, path string, options ...pkgmodel.BuilderOption) pkgmodel.Form {
	t.Helper()

	form, err := pkgmodel.NewBuilder(options...).Build(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// MustLoadForm loads a JSON golden file into a Form structure.
func MustLoadForm(t *testing.T, path string) pkgmodel.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a JSON golden into a Form, returning an error for callers
// managing setup outside of *testing.T.
func LoadForm(path string) (pkgmodel.Form, error) {
	if path == "" {
		return pkgmodel.Form{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var out pkgmodel.Form
	if err := json.Unmarshal(data, &out); err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return out, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// FixedClock returns a clock that starts at start and advances by step on
// every call.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}
