package testutil

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// GetEnvOrSkip returns the value of the environment variable. If not set, skip the test.
func GetEnvOrSkip(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("Environment variable %s is not set, skipping test", key)
	}
	return value
}

// ToolPathOrSkip locates a scanner binary from TEST_<TOOL>_PATH or PATH, and skips the
// test when neither has it.
func ToolPathOrSkip(t *testing.T, name types.ToolName) string {
	t.Helper()
	key := "TEST_" + strings.ToUpper(string(name)) + "_PATH"
	if path := os.Getenv(key); path != "" {
		return path
	}
	path, err := exec.LookPath(string(name))
	if err != nil {
		t.Skipf("%s is not installed and %s is not set, skipping test", name, key)
	}
	return path
}

// FirestoreOrSkip returns the Firestore database used by integration tests.
func FirestoreOrSkip(t *testing.T) (types.GoogleProjectID, types.FirestoreDatabaseID) {
	t.Helper()
	projectID := GetEnvOrSkip(t, "TEST_FIRESTORE_PROJECT_ID")
	databaseID := GetEnvOrSkip(t, "TEST_FIRESTORE_DATABASE_ID")
	return types.GoogleProjectID(projectID), types.FirestoreDatabaseID(databaseID)
}
