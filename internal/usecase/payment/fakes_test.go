package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type txKey struct{}

// memStore implements every repository and the transaction manager over
// maps. Transactions are serialized and rolled back from a snapshot, which
// makes LockPayment a plain read.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings map[string]domain.Booking
	payments map[string]domain.Payment
	events   map[string]domain.WebhookEvent
	orphans  []domain.OrphanedOrder

	failCreatePayment error
	failCommit        error
	failOrphanLog     error
	failRecordEvent   error
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[string]domain.Booking),
		payments: make(map[string]domain.Payment),
		events:   make(map[string]domain.WebhookEvent),
	}
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	bookings := make(map[string]domain.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	payments := make(map[string]domain.Payment, len(s.payments))
	for k, v := range s.payments {
		payments[k] = v
	}
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, true))
	if err == nil && s.failCommit != nil {
		err = s.failCommit
	}
	if err != nil {
		s.mu.Lock()
		s.bookings = bookings
		s.payments = payments
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) CreateBooking(_ context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Code == booking.Code {
			return fmt.Errorf("%w: %w: booking code", domain.ErrStorageFailure, domain.ErrDuplicateRecord)
		}
	}
	s.bookings[booking.ID] = *booking
	return nil
}

func (s *memStore) GetBookingByID(_ context.Context, bookingID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &b, nil
}

func (s *memStore) GetBookingByCode(_ context.Context, code string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Code == code {
			return &b, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (s *memStore) TransitionBooking(_ context.Context, bookingID string, to domain.BookingStatus, from []domain.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if b.Status == status {
			b.Status = to
			b.UpdatedAt = time.Now()
			s.bookings[bookingID] = b
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreatePayment(_ context.Context, payment *domain.Payment) error {
	if s.failCreatePayment != nil {
		return s.failCreatePayment
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.Gateway.OrderID == payment.Gateway.OrderID {
			return fmt.Errorf("%w: %w: gateway order id", domain.ErrStorageFailure, domain.ErrDuplicateRecord)
		}
	}
	s.payments[payment.ID] = *payment
	return nil
}

func (s *memStore) findPayment(match func(p domain.Payment) bool) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if match(p) {
			return &p, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (s *memStore) GetPaymentByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	return s.findPayment(func(p domain.Payment) bool { return p.Gateway.OrderID == orderID })
}

func (s *memStore) GetPaymentByGatewayPaymentID(_ context.Context, paymentID string) (*domain.Payment, error) {
	return s.findPayment(func(p domain.Payment) bool {
		return p.Gateway.PaymentID != nil && *p.Gateway.PaymentID == paymentID
	})
}

func (s *memStore) GetPaymentByBookingID(_ context.Context, bookingID string) (*domain.Payment, error) {
	return s.findPayment(func(p domain.Payment) bool { return p.BookingID == bookingID })
}

func (s *memStore) LockPayment(ctx context.Context, id string) (*domain.Payment, error) {
	if ctx.Value(txKey{}) == nil {
		return nil, errors.New("lock payment outside a transaction")
	}
	return s.findPayment(func(p domain.Payment) bool { return p.ID == id })
}

func (s *memStore) TransitionPayment(_ context.Context, id string, update domain.PaymentUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return false, nil
	}
	for _, status := range update.From {
		if p.Status != status {
			continue
		}
		if update.PaymentID != nil {
			p.Gateway.PaymentID = update.PaymentID
		}
		if update.Signature != nil {
			p.Gateway.Signature = update.Signature
		}
		if update.Refund != nil {
			refund := *update.Refund
			p.Refund = &refund
		}
		// mirrors the CHECK constraint on the payments table
		if update.To == domain.PaymentStatusSuccess && p.Gateway.PaymentID == nil {
			return false, fmt.Errorf("%w: success without payment id", domain.ErrStorageFailure)
		}
		p.Status = update.To
		p.UpdatedAt = time.Now()
		s.payments[id] = p
		return true, nil
	}
	return false, nil
}

func (s *memStore) RecordReceived(_ context.Context, event *domain.WebhookEvent) error {
	if s.failRecordEvent != nil {
		return s.failRecordEvent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[event.ID]
	switch {
	case !ok:
		e := *event
		e.Status = domain.WebhookEventReceived
		e.ReceivedAt = time.Now()
		e.UpdatedAt = e.ReceivedAt
		s.events[event.ID] = e
	case stored.Status == domain.WebhookEventFailed:
		stored.Status = domain.WebhookEventReceived
		stored.UpdatedAt = time.Now()
		s.events[event.ID] = stored
	case stored.Status.IsFinal():
		return domain.ErrEventAlreadyProcessed
	}
	return nil
}

func (s *memStore) MarkHandled(_ context.Context, eventID, eventName string, status domain.WebhookEventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil
	}
	now := time.Now()
	e.Event = eventName
	e.Status = status
	e.LastError = ""
	e.ProcessedAt = &now
	e.UpdatedAt = now
	s.events[eventID] = e
	return nil
}

func (s *memStore) MarkFailed(_ context.Context, eventID string, payload []byte, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e, ok := s.events[eventID]
	if !ok {
		s.events[eventID] = domain.WebhookEvent{
			ID:         eventID,
			Payload:    payload,
			Status:     domain.WebhookEventFailed,
			Attempts:   1,
			LastError:  reason,
			ReceivedAt: now,
			UpdatedAt:  now,
		}
		return nil
	}
	if e.Status.IsFinal() {
		return nil
	}
	e.Status = domain.WebhookEventFailed
	e.Attempts++
	e.LastError = reason
	e.UpdatedAt = now
	s.events[eventID] = e
	return nil
}

func (s *memStore) FindRetryable(_ context.Context, maxAttempts int, staleBefore time.Time, limit int) ([]*domain.WebhookEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.WebhookEvent
	for _, e := range s.events {
		retry := (e.Status == domain.WebhookEventFailed && e.Attempts < maxAttempts) ||
			(e.Status == domain.WebhookEventReceived && e.UpdatedAt.Before(staleBefore))
		if retry && len(out) < limit {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (s *memStore) GetWebhookEvent(_ context.Context, eventID string) (*domain.WebhookEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &e, nil
}

func (s *memStore) LogOrphanedOrder(_ context.Context, order *domain.OrphanedOrder) error {
	if s.failOrphanLog != nil {
		return s.failOrphanLog
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orphans = append(s.orphans, *order)
	return nil
}

func (s *memStore) counts() (bookings, payments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings), len(s.payments)
}

type fakeGateway struct {
	orderID string
	err     error
	calls   int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*domain.GatewayOrder, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.GatewayOrder{
		ID:       g.orderID,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

type queuedEvent struct {
	id   string
	body []byte
}

type fakeQueue struct {
	mu     sync.Mutex
	events []queuedEvent
	err    error
}

func (q *fakeQueue) Enqueue(_ context.Context, eventID string, body []byte) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, queuedEvent{id: eventID, body: body})
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.PaymentEvent
	alerts []domain.OperatorAlert
}

func (p *recordingPublisher) PublishPaymentEvent(_ context.Context, event domain.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishOperatorAlert(_ context.Context, alert domain.OperatorAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *recordingPublisher) eventsOfType(eventType string) []domain.PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.PaymentEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (p *recordingPublisher) alertKinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.alerts))
	for i, a := range p.alerts {
		kinds[i] = a.Kind
	}
	return kinds
}
