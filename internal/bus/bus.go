// Package bus carries social domain events (follows flipping, likes landing)
// to in-process or external subscribers. Emission only: nothing in this
// service delivers notifications, it just makes the events observable.
package bus

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TopicFollowToggled = "social.follow.toggled"
	TopicPostLiked     = "social.post.liked"
	TopicPostUnliked   = "social.post.unliked"
)

type Event struct {
	Topic     string          `json:"topic"`
	Actor     string          `json:"actor"`             // username performing the action
	Subject   string          `json:"subject,omitempty"` // target username or post id
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"ts"`
}

type Handler func(ctx context.Context, e Event)

type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(topic string, h Handler) (unsubscribe func(), err error)
	Close() error
}
