package clock

import "time"

// Clock provides time to the application. An interface keeps subscribed_at
// timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}
