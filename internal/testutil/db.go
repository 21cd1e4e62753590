// internal/testutil/db.go
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/courtsidehq/courtside/internal/db"
)

// NewTestDB opens a throwaway SQLite database under t.TempDir with the full
// schema applied. The file is removed with the temp dir when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "courtside_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}
