// Package lifecycle holds shared start/stop settings for long-lived components.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (pings, graceful shutdown).
const DefaultTimeout = 10 * time.Second
