package storetesting

import (
	"path/filepath"
	"testing"
	"time"

	"chatcheck/internal/store"
	"chatcheck/internal/testutil"
)

const (
	defaultTimeout = 5 * time.Second
)

// Open creates a history database in a temp directory and closes it with
// the test.
func Open(t testing.TB) (*store.Store, string) {
	t.Helper()
	ctx := testutil.Context(t, defaultTimeout)
	path := filepath.Join(t.TempDir(), "history.duckdb")
	st, err := store.Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}
