package field

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// Impurity and off-grid tests log warnings on purpose; DEBUG_TESTS=1 shows them.
func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}
