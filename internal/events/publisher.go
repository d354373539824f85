package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/metrics"
	"github.com/nkiryanov/bankcore/internal/models"
)

const (
	defaultCountWorkers = 4
	defaultQueueSize    = 1024
	defaultSendTimeout  = 5 * time.Second
)

// Transport delivers a single event to subscribers
type Transport interface {
	Send(ctx context.Context, event models.Event) error
}

type Config struct {
	CountWorkers int
	QueueSize    int

	// Deadline for single event delivery
	SendTimeout time.Duration
}

// Publisher delivers events in background.
// Publish methods never block and never fail: if the queue is full the event is dropped.
type Publisher struct {
	countWorkers int
	sendTimeout  time.Duration

	queue     chan models.Event
	transport Transport
	logger    logger.Logger
}

func NewPublisher(cfg Config, transport Transport, l logger.Logger) *Publisher {
	if cfg.CountWorkers <= 0 {
		cfg.CountWorkers = defaultCountWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	return &Publisher{
		countWorkers: cfg.CountWorkers,
		sendTimeout:  cfg.SendTimeout,
		queue:        make(chan models.Event, cfg.QueueSize),
		transport:    transport,
		logger:       l,
	}
}

func (p *Publisher) PublishMovementCreated(_ context.Context, e models.MovementEvent) {
	p.enqueue(models.EventMovementCreated, e)
}

func (p *Publisher) PublishAccountCreated(_ context.Context, a models.Account) {
	p.enqueue(models.EventAccountCreated, models.NewAccountEvent(a))
}

func (p *Publisher) PublishAccountUpdated(_ context.Context, a models.Account) {
	p.enqueue(models.EventAccountUpdated, models.NewAccountEvent(a))
}

func (p *Publisher) PublishAccountDeleted(_ context.Context, a models.Account) {
	p.enqueue(models.EventAccountDeleted, models.NewAccountEvent(a))
}

func (p *Publisher) enqueue(t models.EventType, payload any) {
	event := models.Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	select {
	case p.queue <- event:
	default:
		metrics.Event(string(t), metrics.EventDropped)
		p.logger.Warn("Event queue is full, event dropped", "event_id", event.ID, "event_type", t)
	}
}

// Run starts workers that deliver queued events until ctx is done.
// Returned channel is closed when all workers stopped
func (p *Publisher) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for range p.countWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx)
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		p.logger.Debug("Event publisher stopped")
	}()

	return idleStopped
}

func (p *Publisher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-p.queue:
			p.send(ctx, event)
		}
	}
}

func (p *Publisher) send(ctx context.Context, event models.Event) {
	ctx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	err := p.transport.Send(ctx, event)
	if err != nil {
		metrics.Event(string(event.Type), metrics.EventFailed)
		p.logger.Error("Failed to publish event", "event_id", event.ID, "event_type", event.Type, "error", err)
		return
	}

	metrics.Event(string(event.Type), metrics.EventSent)
	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type)
}
