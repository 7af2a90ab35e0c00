package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func booking(lr string, created time.Time, status models.BookingStatus, total int64) models.Booking {
	return models.Booking{
		ID:          uuid.New(),
		LRNumber:    lr,
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
		TotalAmount: decimal.NewFromInt(total),
		PaymentType: models.PaymentPaid,
	}
}

func ages() []models.Booking {
	return []models.Booking{
		booking("LR-TODAY", now.Add(-4*time.Hour), models.BookingBooked, 100),
		booking("LR-YESTERDAY", now.Add(-16*time.Hour), models.BookingBooked, 100),
		booking("LR-8D", now.AddDate(0, 0, -8), models.BookingBooked, 100),
		booking("LR-40D", now.AddDate(0, 0, -40), models.BookingBooked, 100),
	}
}

func lrs(list []models.Booking) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.LRNumber)
	}
	return out
}

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestFilter_Ranges(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"LR-TODAY", "LR-YESTERDAY", "LR-8D", "LR-40D"}},
		{"today", Filter{Range: RangeToday}, []string{"LR-TODAY"}},
		{"yesterday", Filter{Range: RangeYesterday}, []string{"LR-YESTERDAY"}},
		{"last week", Filter{Range: RangeLastWeek}, []string{"LR-TODAY", "LR-YESTERDAY"}},
		{"last month", Filter{Range: RangeLastMonth}, []string{"LR-TODAY", "LR-YESTERDAY", "LR-8D"}},
		{"last 3 months", Filter{Range: RangeLast3Months}, []string{"LR-TODAY", "LR-YESTERDAY", "LR-8D", "LR-40D"}},
		{"custom end clamps to end of day", Filter{Range: RangeCustom, Start: day("2026-03-06"), End: day("2026-03-13")}, []string{"LR-YESTERDAY", "LR-8D"}},
		{"custom open start", Filter{Range: RangeCustom, End: day("2026-02-28")}, []string{"LR-40D"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.filter.Apply(ages(), now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, lrs(got))
		})
	}
}

func TestFilter_Errors(t *testing.T) {
	_, err := Filter{Range: "fortnight"}.Apply(ages(), now)
	assert.True(t, apperr.IsValidation(err))
	_, err = Filter{Range: RangeCustom, Start: day("2026-03-10"), End: day("2026-03-01")}.Apply(ages(), now)
	assert.True(t, apperr.IsValidation(err))
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	list := ages()
	list[2].Sender = &models.Party{Name: "Sharma Traders"}
	list[3].Receiver = &models.Party{Name: "Gupta & Sons"}

	got, err := Filter{Search: "SHARMA"}.Apply(list, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-8D"}, lrs(got))

	got, err = Filter{Search: "gupta"}.Apply(list, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-40D"}, lrs(got))

	got, err = Filter{Search: "lr-to", Range: RangeLastWeek}.Apply(list, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-TODAY"}, lrs(got))
}

func TestFilter_SearchKeepsSpaces(t *testing.T) {
	list := ages()
	list[2].Sender = &models.Party{Name: "Sharma Traders"}

	got, err := Filter{Search: "sharma traders"}.Apply(list, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-8D"}, lrs(got))

	got, err = Filter{Search: " sharma"}.Apply(list, now)
	require.NoError(t, err)
	assert.Empty(t, lrs(got))
}

func TestComputeStats(t *testing.T) {
	empty := ComputeStats(nil)
	assert.Zero(t, empty.AvgDeliveryHours)
	assert.True(t, empty.AverageValue.IsZero())

	delivered := booking("LR-D", now.Add(-48*time.Hour), models.BookingDelivered, 330)
	delivered.UpdatedAt = now
	list := []models.Booking{
		delivered,
		booking("LR-B", now, models.BookingBooked, 100),
		booking("LR-T", now, models.BookingInTransit, 50),
		booking("LR-C", now, models.BookingCancelled, 20),
	}
	s := ComputeStats(list)
	assert.Equal(t, s.Total, s.Booked+s.InTransit+s.Delivered+s.Cancelled)
	assert.Equal(t, 1, s.Delivered)
	assert.Equal(t, "500", s.Revenue.String())
	assert.Equal(t, "125", s.AverageValue.String())
	assert.InDelta(t, 48.0, s.AvgDeliveryHours, 1e-9)

	noneDelivered := ComputeStats(list[1:])
	assert.Zero(t, noneDelivered.AvgDeliveryHours)
}

func TestDailyTrend(t *testing.T) {
	points := DailyTrend(ages(), now)
	require.Len(t, points, 30)
	assert.Equal(t, "2026-02-13", points[0].Date)
	assert.Equal(t, "2026-03-14", points[29].Date)
	assert.Equal(t, 1, points[29].Bookings)
	assert.Equal(t, 1, points[28].Bookings)
	assert.Equal(t, 1, points[21].Bookings)
	assert.True(t, points[0].Revenue.IsZero())

	total := 0
	for _, p := range points {
		total += p.Bookings
	}
	assert.Equal(t, 3, total, "the 40 day old booking is outside the window")
}

func TestMonthlyRevenue(t *testing.T) {
	endOfMonth := time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)
	list := []models.Booking{
		booking("A", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), models.BookingBooked, 330),
		booking("B", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), models.BookingBooked, 70),
		booking("C", time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), models.BookingBooked, 999),
	}
	points := MonthlyRevenue(list, endOfMonth)
	require.Len(t, points, 12)
	assert.Equal(t, "Apr 2025", points[0].Month)
	assert.Equal(t, "Feb 2026", points[10].Month)
	assert.Equal(t, "Mar 2026", points[11].Month)
	assert.Equal(t, "330", points[11].Revenue.String())
	assert.Equal(t, "70", points[10].Revenue.String())
}

func TestDistributions(t *testing.T) {
	delhi := &models.Branch{Name: "Delhi"}
	pune := &models.Branch{Name: "Pune"}
	list := []models.Booking{
		booking("1", now, models.BookingBooked, 100),
		booking("2", now, models.BookingDelivered, 300),
		booking("3", now, models.BookingDelivered, 50),
	}
	list[0].FromBranch, list[1].FromBranch = delhi, pune
	list[1].PaymentType = models.PaymentToPay

	status := StatusDistribution(list)
	assert.Equal(t, []NamedCount{{"Booked", 1}, {"In transit", 0}, {"Delivered", 2}, {"Cancelled", 0}}, status)

	pay := PaymentDistribution(list)
	require.Len(t, pay, 3)
	assert.Equal(t, "To Pay", pay[0].Name)
	assert.Equal(t, "Paid", pay[1].Name)
	assert.Equal(t, "150", pay[1].Value.String())
	assert.Equal(t, "Quotation", pay[2].Name)

	branches := BranchRevenue(list)
	require.Len(t, branches, 3)
	assert.Equal(t, []string{"Pune", "Delhi", "Unknown"}, []string{branches[0].Name, branches[1].Name, branches[2].Name})
}

func TestTopCustomers(t *testing.T) {
	parties := make([]*models.Party, 7)
	for i := range parties {
		parties[i] = &models.Party{ID: uuid.New(), Name: fmt.Sprintf("Party %d", i), Type: models.PartyCompany}
	}
	var list []models.Booking
	// party i appears 7-i times as sender
	for i, p := range parties {
		for n := 0; n < 7-i; n++ {
			b := booking("x", now, models.BookingBooked, 1)
			b.SenderID, b.Sender = p.ID, p
			list = append(list, b)
		}
	}
	// a receiver without a resolved party
	extra := booking("y", now, models.BookingBooked, 1)
	extra.SenderID, extra.Sender = parties[6].ID, parties[6]
	extra.ReceiverID = uuid.New()
	list = append(list, extra)

	top := TopCustomers(list)
	require.Len(t, top, 5)
	assert.Equal(t, "Party 0", top[0].Name)
	assert.Equal(t, 7, top[0].Count)
	assert.Equal(t, "company", top[0].Type)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}
}

func TestBranchCountsAndTrend(t *testing.T) {
	branch := uuid.New()
	other := uuid.New()
	in := booking("in", now, models.BookingInTransit, 10)
	in.FromBranchID, in.ToBranchID = other, branch
	out := booking("out", now.AddDate(0, 0, -1), models.BookingBooked, 20)
	out.FromBranchID, out.ToBranchID = branch, other
	done := booking("done", now, models.BookingDelivered, 30)
	done.FromBranchID, done.ToBranchID = other, branch

	list := []models.Booking{in, out, done}
	counts := CountBranch(list, branch)
	assert.Equal(t, 2, counts.Inbound)
	assert.Equal(t, 1, counts.Outbound)
	assert.Equal(t, 1, counts.PendingDeliveries)
	assert.Equal(t, "60", counts.Revenue.String())

	trend := BranchTrend(list, branch, now)
	require.Len(t, trend, 30)
	assert.Equal(t, BranchPoint{Date: "2026-03-14", Inbound: 2}, trend[29])
	assert.Equal(t, BranchPoint{Date: "2026-03-13", Outbound: 1}, trend[28])
}

type fakeSource struct {
	list      []models.Booking
	requested []string
}

func (f *fakeSource) List(ctx context.Context, actor *session.User, branchID string) ([]models.Booking, error) {
	f.requested = append(f.requested, branchID)
	return f.list, nil
}

type fakeRepo struct {
	branch     *models.Branch
	active     int64
	lastBranch *uuid.UUID
}

func (f *fakeRepo) GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	if f.branch == nil || f.branch.ID != id {
		return nil, apperr.NotFound("get branch: not found")
	}
	return f.branch, nil
}

func (f *fakeRepo) CountActiveVehicles(ctx context.Context, branchID *uuid.UUID) (int64, error) {
	f.lastBranch = branchID
	return f.active, nil
}

func TestStatsHandler(t *testing.T) {
	branch := uuid.New()
	b := booking("LR-20260314-0001", now.Add(-time.Hour), models.BookingBooked, 0)
	b.Quantity = 3
	b.FreightPerQty = decimal.NewFromInt(100)
	b.LoadingCharges = decimal.NewFromInt(20)
	b.UnloadingCharges = decimal.NewFromInt(10)
	b.Recalculate()
	src := &fakeSource{list: append([]models.Booking{b}, ages()...)}
	repo := &fakeRepo{branch: &models.Branch{ID: branch, Name: "Delhi"}, active: 4}
	svc := NewService(src, repo)
	svc.now = func() time.Time { return now }

	actor := &session.User{ID: uuid.New(), Role: models.RoleStaff, BranchID: &branch}
	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(logrus.New())})
	app.Use(func(c *fiber.Ctx) error {
		session.SetCtx(c, actor)
		return c.Next()
	})
	app.Get("/stats", StatsHandler(svc))
	app.Get("/branches/:id/summary", BranchSummaryHandler(svc))
	app.Get("/finance", FinanceSummaryHandler(svc))

	resp, err := app.Test(httptest.NewRequest("GET", "/stats?range=today", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report StatsReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.Stats.Total)
	assert.Equal(t, "430", report.Stats.Revenue.String())
	assert.EqualValues(t, 4, report.ActiveVehicles)
	require.NotNil(t, repo.lastBranch)
	assert.Equal(t, branch, *repo.lastBranch)

	resp, err = app.Test(httptest.NewRequest("GET", "/stats?range=custom&start_date=14-03-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/branches/"+branch.String()+"/summary", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/branches/"+uuid.NewString()+"/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/finance?range=last_week", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var fin FinanceSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fin))
	assert.Equal(t, 3, fin.Bookings)
	assert.Equal(t, "530", fin.Revenue.String())
}
