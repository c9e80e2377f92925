package state

import (
	"github.com/davecgh/go-spew/spew"
)

// DebugDump renders the in-memory account and code maps for diagnostics,
// the way the teacher's blockchain_test.go reaches for go-spew to inspect
// state during test failures.
func (s *Store) DebugDump() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spew.Sdump(s.accounts, s.code)
}
