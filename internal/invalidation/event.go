// Package invalidation defines the catalog-change events consumed to purge
// stale cached responses.
package invalidation

import (
	"fmt"
	"strings"
	"time"
)

// Event announces that a collection's rows changed. Version is a
// monotonically increasing counter per collection; older versions are
// replays and must not trigger another purge.
type Event struct {
	Version    uint64    `json:"version"`
	Op         string    `json:"op"`
	Collection string    `json:"collection"`
	TS         time.Time `json:"ts"`
	Source     string    `json:"source,omitempty"`
}

func (e Event) Validate() error {
	if e.Version == 0 {
		return fmt.Errorf("version must be >= 1")
	}
	switch e.Op {
	case "insert", "update", "delete":
	default:
		return fmt.Errorf("op must be insert|update|delete")
	}
	if strings.TrimSpace(e.Collection) == "" {
		return fmt.Errorf("collection is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	return nil
}
