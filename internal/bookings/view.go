package bookings

import (
	"context"
	"sync"

	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"
)

// View is one consumer's private copy of the booking list. Operations are
// applied in call order and patch the local copy after the store write.
// Two views never see each other's writes until they Load again.
type View struct {
	svc   *Service
	actor *session.User

	// serializes operations
	opMu sync.Mutex

	mu       sync.RWMutex
	bookings []models.Booking
	loading  bool
	err      error
}

func NewView(svc *Service, actor *session.User) *View {
	return &View{svc: svc, actor: actor, bookings: []models.Booking{}}
}

func (v *View) begin() {
	v.mu.Lock()
	v.loading = true
	v.err = nil
	v.mu.Unlock()
}

func (v *View) finish(err error) error {
	v.mu.Lock()
	v.loading = false
	v.err = err
	v.mu.Unlock()
	return err
}

// Load replaces the local list. On failure the list is emptied rather than
// left stale.
func (v *View) Load(ctx context.Context, branchID string) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()
	v.begin()

	list, err := v.svc.List(ctx, v.actor, branchID)
	v.mu.Lock()
	if err != nil {
		v.bookings = []models.Booking{}
	} else {
		v.bookings = append([]models.Booking(nil), list...)
	}
	v.mu.Unlock()
	return v.finish(err)
}

func (v *View) Create(ctx context.Context, d Draft) (*models.Booking, error) {
	v.opMu.Lock()
	defer v.opMu.Unlock()
	v.begin()

	b, err := v.svc.Create(ctx, v.actor, d)
	if err == nil {
		v.mu.Lock()
		v.bookings = append([]models.Booking{*b}, v.bookings...)
		v.mu.Unlock()
	}
	return b, v.finish(err)
}

func (v *View) UpdateStatus(ctx context.Context, id string, status models.BookingStatus, extra map[string]any) (*models.Booking, error) {
	v.opMu.Lock()
	defer v.opMu.Unlock()
	v.begin()

	b, err := v.svc.UpdateStatus(ctx, v.actor, id, status, extra)
	if err == nil {
		v.mu.Lock()
		for i := range v.bookings {
			if v.bookings[i].ID == b.ID {
				v.bookings[i] = *b
			}
		}
		v.mu.Unlock()
	}
	return b, v.finish(err)
}

func (v *View) Delete(ctx context.Context, id string) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()
	v.begin()

	bookingID, err := ident.Parse(id)
	if err != nil {
		return v.finish(err)
	}
	err = v.svc.Delete(ctx, v.actor, bookingID.String())
	if err == nil {
		v.mu.Lock()
		kept := v.bookings[:0:0]
		for _, b := range v.bookings {
			if b.ID != bookingID {
				kept = append(kept, b)
			}
		}
		v.bookings = kept
		v.mu.Unlock()
	}
	return v.finish(err)
}

// Bookings returns a copy of the local list.
func (v *View) Bookings() []models.Booking {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Booking(nil), v.bookings...)
}

func (v *View) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// Err is the error of the last operation, nil if it succeeded.
func (v *View) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}
