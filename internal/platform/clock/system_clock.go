package clock

import "time"

// SystemClock reads the wall clock. Subscription timestamps are stored in
// UTC, so Now normalizes before returning.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
