package publisher

import (
	"encoding/json"
	"log"

	"socialnet/events"
	natsClient "socialnet/nats"
)

// EventPublisher emits domain events over NATS. A nil publisher (or one
// built with a nil client) silently drops events, so the bus stays
// optional: the write paths never fail because an event could not be
// published.
type EventPublisher struct {
	nats *natsClient.Client
}

func NewEventPublisher(nats *natsClient.Client) *EventPublisher {
	return &EventPublisher{nats: nats}
}

func (p *EventPublisher) publish(subject string, payload interface{}) {
	if p == nil || p.nats == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event %s: %v", subject, err)
		return
	}

	if err := p.nats.Publish(subject, data); err != nil {
		log.Printf("failed to publish event %s: %v", subject, err)
	}
}

func (p *EventPublisher) PostCreated(event events.PostCreatedEvent) {
	p.publish(events.PostCreated, event)
}

func (p *EventPublisher) PostDeleted(event events.PostDeletedEvent) {
	p.publish(events.PostDeleted, event)
}

func (p *EventPublisher) PostLiked(event events.PostLikeEvent) {
	p.publish(events.PostLiked, event)
}

func (p *EventPublisher) PostUnliked(event events.PostLikeEvent) {
	p.publish(events.PostUnliked, event)
}

func (p *EventPublisher) UserFollowed(event events.FollowEvent) {
	p.publish(events.UserFollowed, event)
}

func (p *EventPublisher) UserUnfollowed(event events.FollowEvent) {
	p.publish(events.UserUnfollowed, event)
}
