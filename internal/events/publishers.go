package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogPublisher writes notifications to the log instead of a broker. It is
// used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher returns a LogPublisher writing to logger.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, payload any) error {
	p.logger.Info("event published", zap.String("topic", topic), zap.Any("payload", payload))
	return nil
}

// Recorder keeps every published envelope in memory.
type Recorder struct {
	mu        sync.Mutex
	envelopes []Envelope
	err       error
}

// FailWith makes subsequent Publish calls return err after recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Publish(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.envelopes = append(r.envelopes, Envelope{Topic: topic, Payload: payload})
	return r.err
}

// Envelopes returns a copy of everything published so far.
func (r *Recorder) Envelopes() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Envelope(nil), r.envelopes...)
}

// Topics returns the topics published so far, in order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	topics := make([]string, 0, len(r.envelopes))
	for _, e := range r.envelopes {
		topics = append(topics, e.Topic)
	}
	return topics
}
