package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/broker/messages"
	"desicargo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	events   []models.TrackingEvent
	failNext error
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]*models.Booking{}}
}

func (m *memStore) AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *memStore) FindBookingByLR(ctx context.Context, lr string) (*models.Booking, error) {
	b, ok := m.bookings[lr]
	if !ok {
		return nil, apperr.NotFound("find booking: not found")
	}
	return b, nil
}

func (m *memStore) ListTrackingEvents(ctx context.Context, bookingID uuid.UUID) ([]models.TrackingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrackingEvent
	for _, e := range m.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) recorded() []models.TrackingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TrackingEvent(nil), m.events...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func seedBooking(st *memStore) *models.Booking {
	b := &models.Booking{
		ID:         uuid.New(),
		LRNumber:   "LR-20260314-0001",
		Status:     models.BookingInTransit,
		FromBranch: &models.Branch{Name: "Delhi"},
		ToBranch:   &models.Branch{Name: "Mumbai"},
		Quantity:   3,
		UOM:        "Nos",
		CreatedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	st.bookings[b.LRNumber] = b
	return b
}

func TestRecorderAndTrack(t *testing.T) {
	st := newMemStore()
	b := seedBooking(st)
	rec := NewRecorder(st, quietLogger())
	pub := NewInlinePublisher(rec)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	require.NoError(t, pub.PublishBookingEvent(ctx, messages.BookingEvent{
		Type: messages.BookingCreated, BookingID: b.ID.String(), LRNumber: b.LRNumber,
		Status: "booked", Location: "Delhi", OccurredAt: at,
	}))
	require.NoError(t, pub.PublishBookingEvent(ctx, messages.BookingEvent{
		Type: messages.BookingUnloaded, BookingID: b.ID.String(), LRNumber: b.LRNumber,
		Status: "delivered", Location: "Mumbai", OGPLNumber: "OGPL-20260315-0001",
		Condition: "damaged", Remarks: "box torn", OccurredAt: at.Add(24 * time.Hour),
	}))
	require.NoError(t, rec.Record(ctx, messages.BookingEvent{Type: messages.BookingCreated, BookingID: "nope"}))

	svc := NewService(st)
	got, err := svc.Track(ctx, " LR-20260314-0001 ")
	require.NoError(t, err)
	assert.Equal(t, "Delhi", got.FromBranch)
	assert.Equal(t, "Mumbai", got.ToBranch)
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, "Consignment booked", got.Timeline[0].Description)
	assert.Equal(t, "Unloaded from manifest OGPL-20260315-0001, goods damaged: box torn", got.Timeline[1].Description)

	_, err = svc.Track(ctx, "LR-19990101-0001")
	assert.True(t, apperr.IsReason(err, apperr.ReasonNotFound))
	_, err = svc.Track(ctx, "  ")
	assert.True(t, apperr.IsValidation(err))
}

type producerMock struct {
	mock.Mock
}

func (m *producerMock) Publish(ctx context.Context, topic string, key, value []byte) error {
	return m.Called(ctx, topic, key, value).Error(0)
}

func TestKafkaPublisher(t *testing.T) {
	pm := &producerMock{}
	id := uuid.NewString()
	pm.On("Publish", mock.Anything, "booking.events", []byte(id), mock.MatchedBy(func(v []byte) bool {
		var ev messages.BookingEvent
		return json.Unmarshal(v, &ev) == nil && ev.BookingID == id && ev.Type == messages.BookingLoaded
	})).Return(nil).Once()

	p := NewKafkaPublisher(pm, "booking.events")
	require.NoError(t, p.PublishBookingEvent(context.Background(), messages.BookingEvent{Type: messages.BookingLoaded, BookingID: id}))
	pm.AssertExpectations(t)
}

type scriptedConsumer struct {
	calls    int
	payloads [][]byte
	cancel   context.CancelFunc
	errs     []error
}

func (c *scriptedConsumer) Consume(ctx context.Context, handler func(key, value []byte) error) error {
	c.calls++
	for _, p := range c.payloads {
		if err := handler(nil, p); err != nil {
			return err
		}
	}
	if c.calls > len(c.errs) {
		c.cancel()
		<-ctx.Done()
		return ctx.Err()
	}
	return c.errs[c.calls-1]
}

func TestRun_SkipsMalformedAndStopsOnCancel(t *testing.T) {
	st := newMemStore()
	b := seedBooking(st)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good, err := json.Marshal(messages.BookingEvent{Type: messages.BookingCreated, BookingID: b.ID.String(), LRNumber: b.LRNumber})
	require.NoError(t, err)
	c := &scriptedConsumer{payloads: [][]byte{[]byte("{not json"), good}, cancel: cancel}

	done := make(chan struct{})
	go func() {
		Run(ctx, c, NewRecorder(st, quietLogger()), quietLogger())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer runner did not stop")
	}
	assert.Equal(t, 1, c.calls)
	assert.Len(t, st.recorded(), 1)
}

func TestRun_RetriesAfterStoreFailure(t *testing.T) {
	st := newMemStore()
	b := seedBooking(st)
	st.failNext = errors.New("db down")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, err := json.Marshal(messages.BookingEvent{Type: messages.BookingCreated, BookingID: b.ID.String(), LRNumber: b.LRNumber})
	require.NoError(t, err)
	c := &scriptedConsumer{payloads: [][]byte{payload}, cancel: cancel, errs: []error{nil}}

	done := make(chan struct{})
	go func() {
		Run(ctx, c, NewRecorder(st, quietLogger()), quietLogger())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer runner did not stop")
	}
	assert.Equal(t, 2, c.calls)
	assert.Len(t, st.recorded(), 1, "the redelivered event is stored on retry")
}

func TestTrackHandler(t *testing.T) {
	st := newMemStore()
	seedBooking(st)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(quietLogger())})
	app.Get("/api/track/:lrNumber", TrackHandler(NewService(st)))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/track/LR-20260314-0001", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got Shipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, models.BookingInTransit, got.Status)
	assert.NotNil(t, got.Timeline)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/track/LR-00000000-0000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
