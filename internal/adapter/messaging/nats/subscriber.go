package nats

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

// Subscriber reacts to listing change events published by the listing
// service by purging cached feed snapshots, so the next initial page is
// rebuilt from live data. This is the only push-shaped input the feed
// core has; everything else polls.
type Subscriber struct {
	conn   *nats.Conn
	cache  domain.SnapshotCache
	logger logger.Logger
	subs   []*nats.Subscription
}

func NewSubscriber(url string, cache domain.SnapshotCache, log logger.Logger) (*Subscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, cache: cache, logger: log}, nil
}

// Listen subscribes to the given subjects (e.g. listing.created,
// listing.updated).
func (s *Subscriber) Listen(subjects ...string) error {
	for _, subject := range subjects {
		sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
			s.logger.Debugf("Subscriber: %s received, purging feed snapshots", msg.Subject)
			s.cache.Purge(context.Background())
		})
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.conn.Close()
}
