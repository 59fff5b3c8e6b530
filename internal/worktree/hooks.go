package worktree

import (
	"fmt"
	"os"
)

// withoutHooks returns git -c arguments that point core.hooksPath at an
// empty temporary directory, so checkout hooks of the host repository do
// not run while the dashboard creates a worktree. cleanup removes the
// directory.
func withoutHooks() (args []string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "ticketdash-nohooks")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp hooks dir: %w", err)
	}
	return []string{"-c", "core.hooksPath=" + dir}, func() { _ = os.RemoveAll(dir) }, nil
}
