package watch

import (
	"testing"

	"go.uber.org/goleak"
)

// Run closes the fsnotify watcher and waits for both workers before
// returning, so no test may leave watch goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
