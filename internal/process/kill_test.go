package process

// Notes:
// - Real kills are exercised by the rasterizer integration tests; here we only
//   check that invalid or non-positive PIDs are ignored without panicking.
//   PID 0 must never reach syscall.Kill(-0, ...), which would signal our own group.

import "testing"

func TestKillProcessGroup_IgnoresInvalidPIDs(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1, 999999999} {
		KillProcessGroup(pid)
	}
}
