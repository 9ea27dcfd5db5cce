package models

import "time"

// Subscription is the database representation of a subscriber→channel edge.
type Subscription struct {
	SubscriberID string    `db:"subscriber_id"`
	ChannelID    string    `db:"channel_id"`
	CreatedAt    time.Time `db:"created_at"`
}
