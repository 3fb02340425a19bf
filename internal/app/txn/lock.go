package txn

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
)

// PathLocker is an in-process advisory lock over directory trees. Two
// operations conflict when one path equals or contains the other.
//
// It does not protect against other processes; cross-process coordination
// is left to the caller.
type PathLocker struct {
	mu   sync.Mutex
	held map[string]int
}

// NewPathLocker returns an empty PathLocker.
func NewPathLocker() *PathLocker {
	return &PathLocker{held: make(map[string]int)}
}

// TryLock acquires all paths or none. It never blocks: if any path overlaps
// one already held, it returns an error wrapping domain.ErrConflict. The
// returned unlock func is idempotent.
func (l *PathLocker) TryLock(paths ...string) (func(), error) {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range cleaned {
		for h := range l.held {
			if overlaps(p, h) {
				return nil, fmt.Errorf("%w: %s is in use by another operation", domain.ErrConflict, p)
			}
		}
	}
	for _, p := range cleaned {
		l.held[p]++
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for _, p := range cleaned {
				if l.held[p]--; l.held[p] <= 0 {
					delete(l.held, p)
				}
			}
		})
	}, nil
}

// Held returns the number of locked paths.
func (l *PathLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

func overlaps(a, b string) bool {
	if a == b {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(a, strings.TrimSuffix(b, sep)+sep) ||
		strings.HasPrefix(b, strings.TrimSuffix(a, sep)+sep)
}
