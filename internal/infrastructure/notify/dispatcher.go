package notify

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/notification"
)

const (
	queueSize      = 1024
	deliverTimeout = 30 * time.Second
)

// Dispatcher decouples workflow commits from notification delivery: Publish
// enqueues and returns immediately, a background loop forwards each event to
// the sink. A full queue drops the event with a warning — a notification is
// never allowed to slow down or fail an order operation.
type Dispatcher struct {
	queue     chan notification.Event
	sink      notification.Publisher
	log       *zap.Logger
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewDispatcher(sink notification.Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue: make(chan notification.Event, queueSize),
		sink:  sink,
		log:   logger.With(zap.String("component", "notify_dispatcher")),
		done:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		d.cancel = cancel
		go d.loop(bg)
		d.log.Info("dispatcher_started")
	})
}

func (d *Dispatcher) Stop(ctx context.Context) {
	d.stopOnce.Do(func() {
		close(d.queue)
		select {
		case <-d.done:
		case <-ctx.Done():
		}
		if d.cancel != nil {
			d.cancel()
		}
		d.log.Info("dispatcher_stopped")
	})
}

func (d *Dispatcher) Publish(ctx context.Context, e notification.Event) error {
	if e == nil {
		return nil
	}
	select {
	case d.queue <- e:
		return nil
	case <-ctx.Done():
		d.log.Warn("event_enqueue_aborted",
			zap.String("event", e.EventName()),
			zap.Error(ctx.Err()),
		)
		return ctx.Err()
	default:
		d.log.Warn("event_dropped_queue_full", zap.String("event", e.EventName()))
		return nil
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e notification.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event_sink_panic",
				zap.String("event", e.EventName()),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	deliverCtx, cancelDeliver := context.WithTimeout(ctx, deliverTimeout)
	defer cancelDeliver()

	if err := d.sink.Publish(deliverCtx, e); err != nil {
		d.log.Warn("event_delivery_failed",
			zap.String("event", e.EventName()),
			zap.Error(err),
		)
	}
}
