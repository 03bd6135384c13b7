package services

import "github.com/techagentng/ain/models"

// FeedPublisher receives report events for live subscribers.
type FeedPublisher interface {
	Publish(event models.FeedEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.FeedEvent) {}
