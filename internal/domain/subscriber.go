package domain

import "time"

// SubscriberID is an internal identifier for a subscriber record.
type SubscriberID string

// SubscriberStatus tracks where a subscriber is in the confirmation lifecycle.
// The only legal transition is pending_confirmation -> confirmed; it happens
// at most once and never reverts.
type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

// Subscriber is a person who submitted sign-up details, tracked through the
// pending/confirmed states. Only confirmed subscribers receive newsletters.
type Subscriber struct {
	ID           SubscriberID
	Name         SubscriberName
	Email        SubscriberEmail
	Status       SubscriberStatus
	SubscribedAt time.Time
}
