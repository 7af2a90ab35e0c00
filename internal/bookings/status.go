package bookings

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
)

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingBooked:    {models.BookingInTransit, models.BookingCancelled},
	models.BookingInTransit: {models.BookingDelivered, models.BookingCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another. Delivered and cancelled are terminal.
func CanTransition(from, to models.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Columns a status update may touch besides status itself.
var extraFieldColumns = map[string]bool{
	"remarks":                true,
	"description":            true,
	"delivery_type":          true,
	"private_mark_number":    true,
	"reference_number":       true,
	"eway_bill_number":       true,
	"expected_delivery_date": true,
}

func sanitizeExtraFields(extra map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(extra)+2)
	var rejected []string
	for k, v := range extra {
		if !extraFieldColumns[k] {
			rejected = append(rejected, k)
			continue
		}
		if k == "expected_delivery_date" {
			t, err := parseDate(v)
			if err != nil {
				return nil, err
			}
			out[k] = t
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, apperr.Validation("%s must be a string", k)
		}
		out[k] = strings.TrimSpace(str)
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return nil, apperr.Validation("fields cannot be changed with a status update: %s", strings.Join(rejected, ", "))
	}
	return out, nil
}

func parseDate(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperr.Validation("expected_delivery_date must be a date string")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("%s", fmt.Sprintf("expected_delivery_date %q is not a date", s))
}
