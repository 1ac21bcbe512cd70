package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"wedding-memories/internal/models"
	"wedding-memories/internal/stats"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

var errNotConnected = errors.New("relay not connected")

// Relay shares change events between instances over a RabbitMQ fanout
// exchange. Every instance consumes from its own exclusive queue.
type Relay struct {
	url      string
	exchange string
	origin   string
	wall     *stats.Wall
	hub      *Hub
	log      zerolog.Logger

	mu sync.Mutex
	ch *amqp.Channel

	done   chan struct{}
	cancel context.CancelFunc
}

func NewRelay(url, exchange, origin string, wall *stats.Wall, hub *Hub, log zerolog.Logger) *Relay {
	return &Relay{
		url:      url,
		exchange: exchange,
		origin:   origin,
		wall:     wall,
		hub:      hub,
		log:      log.With().Str("component", "relay").Str("exchange", exchange).Logger(),
		done:     make(chan struct{}),
	}
}

// Start connects in the background and keeps reconnecting until Stop.
// After any gap in the connection the wall is reloaded from storage.
func (r *Relay) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.run(cctx)
}

func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Relay) run(ctx context.Context) {
	defer close(r.done)

	backoff := minBackoff
	missed := false
	for {
		conn, msgs, err := r.connect()
		if err != nil {
			missed = true
			r.log.Error().Err(err).Dur("retry_in", backoff).Msg("RabbitMQ connect failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff
		r.log.Info().Msg("Relay connected")

		if missed {
			if err := r.wall.Reload(ctx); err != nil {
				r.log.Warn().Err(err).Msg("Wall reload after reconnect failed")
			}
		}

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		r.consume(ctx, msgs, closed)

		r.setChannel(nil)
		_ = conn.Close()
		if ctx.Err() != nil {
			r.log.Info().Msg("Relay stopped")
			return
		}
		missed = true
	}
}

func (r *Relay) connect() (*amqp.Connection, <-chan amqp.Delivery, error) {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	fail := func(what string, err error) (*amqp.Connection, <-chan amqp.Delivery, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to %s: %w", what, err)
	}

	if err := ch.ExchangeDeclare(r.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fail("declare exchange", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fail("declare queue", err)
	}
	if err := ch.QueueBind(q.Name, "", r.exchange, false, nil); err != nil {
		return fail("bind queue", err)
	}
	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fail("start consuming", err)
	}

	r.setChannel(ch)
	return conn, msgs, nil
}

func (r *Relay) consume(ctx context.Context, msgs <-chan amqp.Delivery, closed <-chan *amqp.Error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-closed:
			if err != nil {
				r.log.Warn().Err(err).Msg("RabbitMQ connection closed")
			}
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			if err := r.handle(d.Body); err != nil {
				r.log.Warn().Err(err).Msg("Dropping relay message")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle applies an event from another instance to the wall and forwards
// it to local clients.
func (r *Relay) handle(body []byte) error {
	ev, err := decodeEvent(body)
	if err != nil {
		return err
	}
	if ev.Origin == r.origin {
		return nil
	}
	if r.wall.Apply(ev) {
		r.hub.Broadcast(ev)
	}
	return nil
}

// Publish sends ev to the exchange.
func (r *Relay) Publish(ev models.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.ch.PublishWithContext(ctx, r.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   ev.At,
	})
}

func (r *Relay) setChannel(ch *amqp.Channel) {
	r.mu.Lock()
	r.ch = ch
	r.mu.Unlock()
}

func decodeEvent(body []byte) (models.ChangeEvent, error) {
	var ev models.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if ev.Table != models.SubmissionsTable {
		return ev, fmt.Errorf("unexpected table %q", ev.Table)
	}
	switch ev.Type {
	case models.ChangeInsert:
		if ev.New == nil || ev.New.ID == "" {
			return ev, errors.New("insert event without record")
		}
	case models.ChangeDelete:
		if ev.OldID == "" {
			return ev, errors.New("delete event without id")
		}
	default:
		return ev, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return ev, nil
}
