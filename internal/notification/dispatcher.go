package notification

import (
	"context"
	"sync"

	"go-madrasah/internal/metrics"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 1024
)

// Notifier is what producers depend on. Notify must not block.
type Notifier interface {
	Notify(req NotifyRequest) bool
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Dispatcher delivers notifications on a fixed worker pool fed by a bounded
// queue. Delivery is best effort: nothing is retried.
type Dispatcher struct {
	store   Store
	email   EmailSender
	metrics *metrics.Metrics
	clock   clock.Clock
	logger  *zap.Logger

	queue   chan NotifyRequest
	workers int

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(store Store, email EmailSender, cfg DispatcherConfig, m *metrics.Metrics, clk clock.Clock, logger ...*zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if clk == nil {
		clk = clock.System()
	}
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{
		store:   store,
		email:   email,
		metrics: m,
		clock:   clk,
		logger:  l,
		queue:   make(chan NotifyRequest, cfg.QueueSize),
		workers: cfg.Workers,
	}
}

// Start launches the workers. They stop when ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
	d.logger.Info("notification dispatcher started",
		zap.Int("workers", d.workers),
		zap.Int("queue_size", cap(d.queue)),
	)
}

// Stop cancels the workers and waits for in-flight deliveries. Requests still
// queued are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	cancel := d.cancel
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	d.wg.Wait()
	if n := len(d.queue); n > 0 {
		d.logger.Warn("notification dispatcher stopped with queued requests", zap.Int("dropped", n))
	}
	d.logger.Info("notification dispatcher stopped")
}

// Notify enqueues req and reports whether it was accepted.
func (d *Dispatcher) Notify(req NotifyRequest) bool {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		d.metrics.ObserveNotification(req.EventType, "dropped")
		return false
	}

	select {
	case d.queue <- req:
		d.metrics.SetQueueDepth(len(d.queue))
		return true
	default:
		d.metrics.ObserveNotification(req.EventType, "queue_full")
		d.logger.Warn("notification queue full, dropping",
			zap.String("event_type", req.EventType),
			zap.String("tenant_id", req.TenantID),
		)
		return false
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.queue:
			d.metrics.SetQueueDepth(len(d.queue))
			d.deliver(ctx, req)
		}
	}
}

func isAttendanceEvent(eventType string) bool {
	switch eventType {
	case EventAttendanceAbsent, EventAttendanceLate, EventStaffAttendanceLate:
		return true
	}
	return false
}

// deliver persists the inbox row and sends email when the tenant enables it.
// A panic in one delivery is contained to that delivery.
func (d *Dispatcher) deliver(ctx context.Context, req NotifyRequest) {
	log := d.logger.With(
		zap.String("event_type", req.EventType),
		zap.String("tenant_id", req.TenantID),
	)
	defer func() {
		if r := recover(); r != nil {
			d.metrics.ObserveNotification(req.EventType, "failed")
			log.Error("notification delivery panicked", zap.Any("panic", r))
		}
	}()

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		d.metrics.ObserveNotification(req.EventType, "failed")
		log.Warn("notification has invalid tenant id")
		return
	}

	settings, err := d.store.GetSettings(ctx, req.TenantID)
	if err != nil {
		log.Warn("load notification settings failed, using defaults", zap.Error(err))
		settings = DefaultSettings(tenantID)
	}
	if isAttendanceEvent(req.EventType) && !settings.AttendanceNotificationsEnabled {
		d.metrics.ObserveNotification(req.EventType, "disabled")
		return
	}

	data := make(map[string]string, len(req.Data)+1)
	for k, v := range req.Data {
		data[k] = v
	}

	recipientID, email := req.RecipientID, req.RecipientEmail
	var recipientName string
	if recipientID == "" && req.PersonID != "" {
		contact, err := d.store.FindContact(ctx, req.TenantID, req.PersonType, req.PersonID)
		if err != nil {
			log.Warn("recipient lookup failed", zap.String("person_id", req.PersonID), zap.Error(err))
		} else {
			if contact.UserID != nil {
				recipientID = contact.UserID.String()
			}
			if email == "" {
				email = contact.Email
			}
			recipientName = contact.Name
		}
	}

	tpl := TemplateFor(req.EventType)
	target := req.TargetRole
	if target == "" {
		target = tpl.TargetRole
	}

	n := &Notification{
		ID:         uuid.New(),
		TenantID:   tenantID,
		TargetRole: target,
		EventType:  req.EventType,
		Title:      Render(tpl.Title, data),
		Body:       Render(tpl.Body, data),
		Priority:   tpl.Priority,
		Data:       toJSONMap(data),
		Channel:    "in_app",
		CreatedAt:  d.clock.Now(),
	}
	if uid, err := uuid.Parse(recipientID); err == nil {
		n.RecipientID = &uid
	}

	if err := d.store.Create(ctx, n); err != nil {
		d.metrics.ObserveNotification(req.EventType, "failed")
		log.Error("persist notification failed", zap.Error(err))
		return
	}

	if settings.EmailEnabled && email != "" && d.email != nil {
		err := d.email.Send(ctx, EmailMessage{
			ToName:    recipientName,
			ToAddress: email,
			Subject:   n.Title,
			Body:      n.Body,
		})
		if err != nil {
			d.metrics.ObserveNotification(req.EventType, "email_failed")
			log.Error("send notification email failed", zap.Error(err))
			return
		}
	}

	d.metrics.ObserveNotification(req.EventType, "sent")
	log.Debug("notification delivered", zap.String("notification_id", n.ID.String()))
}

func toJSONMap(data map[string]string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
