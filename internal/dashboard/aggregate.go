package dashboard

import (
	"sort"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Range string

const (
	RangeAll         Range = ""
	RangeToday       Range = "today"
	RangeYesterday   Range = "yesterday"
	RangeLastWeek    Range = "last_week"
	RangeLastMonth   Range = "last_month"
	RangeLast3Months Range = "last_3_months"
	RangeCustom      Range = "custom"
)

const (
	trendDays       = 30
	revenueMonths   = 12
	topCustomersMax = 5
)

// Filter narrows a booking collection by creation date and a free-text
// match on LR number, sender or receiver.
type Filter struct {
	Range  Range
	Start  *time.Time
	End    *time.Time
	Search string
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (f Filter) matcher(now time.Time) (func(time.Time) bool, error) {
	loc := now.Location()
	switch f.Range {
	case RangeAll:
		return func(time.Time) bool { return true }, nil
	case RangeToday:
		return func(t time.Time) bool { return sameDay(t.In(loc), now) }, nil
	case RangeYesterday:
		y := now.AddDate(0, 0, -1)
		return func(t time.Time) bool { return sameDay(t.In(loc), y) }, nil
	case RangeLastWeek:
		from := now.AddDate(0, 0, -7)
		return func(t time.Time) bool { return !t.Before(from) }, nil
	case RangeLastMonth:
		from := now.AddDate(0, -1, 0)
		return func(t time.Time) bool { return !t.Before(from) }, nil
	case RangeLast3Months:
		from := now.AddDate(0, -3, 0)
		return func(t time.Time) bool { return !t.Before(from) }, nil
	case RangeCustom:
		var from time.Time
		if f.Start != nil {
			from = *f.Start
		}
		to := now
		if f.End != nil {
			to = *f.End
		}
		to = endOfDay(to.In(loc))
		if to.Before(from) {
			return nil, apperr.Validation("start date must not be after end date")
		}
		return func(t time.Time) bool { return !t.Before(from) && !t.After(to) }, nil
	}
	return nil, apperr.Validation("date range %q is not supported", f.Range)
}

func (f Filter) Apply(bookings []models.Booking, now time.Time) ([]models.Booking, error) {
	inRange, err := f.matcher(now)
	if err != nil {
		return nil, err
	}
	// matched as typed; surrounding spaces are part of the term
	term := strings.ToLower(f.Search)

	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if term != "" &&
			!strings.Contains(strings.ToLower(b.LRNumber), term) &&
			!strings.Contains(strings.ToLower(b.SenderName()), term) &&
			!strings.Contains(strings.ToLower(b.ReceiverName()), term) {
			continue
		}
		if inRange(b.CreatedAt) {
			out = append(out, b)
		}
	}
	return out, nil
}

type Stats struct {
	Total            int             `json:"total"`
	Booked           int             `json:"booked"`
	InTransit        int             `json:"in_transit"`
	Delivered        int             `json:"delivered"`
	Cancelled        int             `json:"cancelled"`
	Revenue          decimal.Decimal `json:"revenue"`
	AverageValue     decimal.Decimal `json:"average_value"`
	AvgDeliveryHours float64         `json:"avg_delivery_hours"`
}

func ComputeStats(bookings []models.Booking) Stats {
	s := Stats{Total: len(bookings), Revenue: decimal.Zero, AverageValue: decimal.Zero}
	var deliveredHours float64
	for _, b := range bookings {
		switch b.Status {
		case models.BookingBooked:
			s.Booked++
		case models.BookingInTransit:
			s.InTransit++
		case models.BookingDelivered:
			s.Delivered++
			deliveredHours += b.UpdatedAt.Sub(b.CreatedAt).Hours()
		case models.BookingCancelled:
			s.Cancelled++
		}
		s.Revenue = s.Revenue.Add(b.TotalAmount)
	}
	if s.Total > 0 {
		s.AverageValue = s.Revenue.Div(decimal.NewFromInt(int64(s.Total))).Round(2)
	}
	if s.Delivered > 0 {
		s.AvgDeliveryHours = deliveredHours / float64(s.Delivered)
	}
	return s
}

type DailyPoint struct {
	Date      string          `json:"date"`
	Bookings  int             `json:"bookings"`
	Delivered int             `json:"delivered"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DailyTrend buckets bookings into the 30 days ending today, oldest first.
func DailyTrend(bookings []models.Booking, now time.Time) []DailyPoint {
	points := make([]DailyPoint, trendDays)
	index := make(map[string]int, trendDays)
	today := startOfDay(now)
	for i := 0; i < trendDays; i++ {
		day := today.AddDate(0, 0, i-(trendDays-1)).Format("2006-01-02")
		points[i] = DailyPoint{Date: day, Revenue: decimal.Zero}
		index[day] = i
	}
	for _, b := range bookings {
		i, ok := index[b.CreatedAt.In(now.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		points[i].Bookings++
		points[i].Revenue = points[i].Revenue.Add(b.TotalAmount)
		if b.Status == models.BookingDelivered {
			points[i].Delivered++
		}
	}
	return points
}

type MonthlyPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue covers the trailing 12 calendar months, labelled "Jan 2026".
func MonthlyRevenue(bookings []models.Booking, now time.Time) []MonthlyPoint {
	points := make([]MonthlyPoint, revenueMonths)
	index := make(map[string]int, revenueMonths)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < revenueMonths; i++ {
		label := first.AddDate(0, i-(revenueMonths-1), 0).Format("Jan 2006")
		points[i] = MonthlyPoint{Month: label, Revenue: decimal.Zero}
		index[label] = i
	}
	for _, b := range bookings {
		if i, ok := index[b.CreatedAt.In(now.Location()).Format("Jan 2006")]; ok {
			points[i].Revenue = points[i].Revenue.Add(b.TotalAmount)
		}
	}
	return points
}

type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type NamedAmount struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

func statusLabel(s models.BookingStatus) string {
	label := strings.ReplaceAll(string(s), "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// StatusDistribution always lists every status in display order.
func StatusDistribution(bookings []models.Booking) []NamedCount {
	counts := make(map[models.BookingStatus]int, len(models.BookingStatuses))
	for _, b := range bookings {
		counts[b.Status]++
	}
	out := make([]NamedCount, 0, len(models.BookingStatuses))
	for _, s := range models.BookingStatuses {
		out = append(out, NamedCount{Name: statusLabel(s), Value: counts[s]})
	}
	return out
}

func sortAmounts(out []NamedAmount) {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
}

// PaymentDistribution sums revenue per payment type, largest first.
func PaymentDistribution(bookings []models.Booking) []NamedAmount {
	order := []models.PaymentType{models.PaymentPaid, models.PaymentToPay, models.PaymentQuotation}
	sums := map[models.PaymentType]decimal.Decimal{}
	for _, b := range bookings {
		if _, ok := sums[b.PaymentType]; !ok && !b.PaymentType.Valid() {
			order = append(order, b.PaymentType)
		}
		sums[b.PaymentType] = sums[b.PaymentType].Add(b.TotalAmount)
	}
	out := make([]NamedAmount, 0, len(order))
	for _, p := range order {
		v, ok := sums[p]
		if !ok {
			v = decimal.Zero
		}
		out = append(out, NamedAmount{Name: string(p), Value: v})
	}
	sortAmounts(out)
	return out
}

// BranchRevenue sums revenue per origin branch, largest first.
func BranchRevenue(bookings []models.Booking) []NamedAmount {
	sums := map[string]decimal.Decimal{}
	var names []string
	for _, b := range bookings {
		name := "Unknown"
		if b.FromBranch != nil && b.FromBranch.Name != "" {
			name = b.FromBranch.Name
		}
		if _, ok := sums[name]; !ok {
			names = append(names, name)
		}
		sums[name] = sums[name].Add(b.TotalAmount)
	}
	sort.Strings(names)
	out := make([]NamedAmount, 0, len(names))
	for _, n := range names {
		out = append(out, NamedAmount{Name: n, Value: sums[n]})
	}
	sortAmounts(out)
	return out
}

type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Count int       `json:"count"`
}

// TopCustomers counts every appearance of a party as sender or receiver.
func TopCustomers(bookings []models.Booking) []Customer {
	tally := map[uuid.UUID]*Customer{}
	add := func(id uuid.UUID, p *models.Party) {
		if id == uuid.Nil {
			return
		}
		c, ok := tally[id]
		if !ok {
			c = &Customer{ID: id, Name: "Unknown", Type: "unknown"}
			tally[id] = c
		}
		if p != nil {
			c.Name, c.Type = p.Name, string(p.Type)
		}
		c.Count++
	}
	for _, b := range bookings {
		add(b.SenderID, b.Sender)
		add(b.ReceiverID, b.Receiver)
	}

	out := make([]Customer, 0, len(tally))
	for _, c := range tally {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > topCustomersMax {
		out = out[:topCustomersMax]
	}
	return out
}

type BranchPoint struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

func BranchTrend(bookings []models.Booking, branchID uuid.UUID, now time.Time) []BranchPoint {
	points := make([]BranchPoint, trendDays)
	index := make(map[string]int, trendDays)
	today := startOfDay(now)
	for i := 0; i < trendDays; i++ {
		day := today.AddDate(0, 0, i-(trendDays-1)).Format("2006-01-02")
		points[i] = BranchPoint{Date: day}
		index[day] = i
	}
	for _, b := range bookings {
		i, ok := index[b.CreatedAt.In(now.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		if b.ToBranchID == branchID {
			points[i].Inbound++
		}
		if b.FromBranchID == branchID {
			points[i].Outbound++
		}
	}
	return points
}

type BranchCounts struct {
	Total             int             `json:"total_bookings"`
	Revenue           decimal.Decimal `json:"revenue"`
	Inbound           int             `json:"inbound_bookings"`
	Outbound          int             `json:"outbound_bookings"`
	PendingDeliveries int             `json:"pending_deliveries"`
}

// CountBranch treats a booking still booked or in transit towards the
// branch as a pending delivery.
func CountBranch(bookings []models.Booking, branchID uuid.UUID) BranchCounts {
	out := BranchCounts{Total: len(bookings), Revenue: decimal.Zero}
	for _, b := range bookings {
		out.Revenue = out.Revenue.Add(b.TotalAmount)
		if b.ToBranchID == branchID {
			out.Inbound++
			if b.Status == models.BookingBooked || b.Status == models.BookingInTransit {
				out.PendingDeliveries++
			}
		}
		if b.FromBranchID == branchID {
			out.Outbound++
		}
	}
	return out
}
