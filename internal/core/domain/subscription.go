package domain

// Subscription links a subscriber to a channel (both are users).
type Subscription struct {
	SubscriberID string `json:"subscriberID"`
	ChannelID    string `json:"channelID"`
	AuditFields
}

// ChannelStats carries the subscription counters for a channel as seen by a viewer.
type ChannelStats struct {
	ChannelID         string `json:"channelID"`
	Username          string `json:"username"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
