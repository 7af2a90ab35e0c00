package ogpl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/broker/messages"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/photos"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type Repository interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	CreateOGPL(ctx context.Context, o *models.OGPL) error
	GetOGPL(ctx context.Context, id uuid.UUID) (*models.OGPL, error)
	LoadBookings(ctx context.Context, ogplID uuid.UUID, records []models.LoadingRecord) error
	ListIncomingOGPLs(ctx context.Context, branchID *uuid.UUID) ([]models.OGPL, error)
	CompleteUnload(ctx context.Context, rec *models.UnloadingRecord, delivered []uuid.UUID) error
	ListUnloadings(ctx context.Context, branchID *uuid.UUID) ([]models.UnloadingRecord, error)
	ListBookingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Booking, error)
}

type Sequencer interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, ev messages.BookingEvent) error
}

// ListInvalidator drops cached booking lists after bookings change status.
type ListInvalidator interface {
	InvalidateLists(ctx context.Context)
}

type PhotoSigner interface {
	GenerateUploadURL(ctx context.Context, ogplID, bookingID uuid.UUID, contentType string) (*photos.UploadURL, error)
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type Service struct {
	repo    Repository
	seq     Sequencer
	events  Publisher
	lists   ListInvalidator
	photos  PhotoSigner
	auditor Auditor
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewService(repo Repository, seq Sequencer, events Publisher, lists ListInvalidator, photos PhotoSigner, auditor Auditor, log logrus.FieldLogger) *Service {
	return &Service{
		repo:    repo,
		seq:     seq,
		events:  events,
		lists:   lists,
		photos:  photos,
		auditor: auditor,
		log:     log.WithField("component", "ogpl"),
		now:     time.Now,
	}
}

type CreateRequest struct {
	VehicleID             string             `json:"vehicle_id"`
	TransitMode           models.TransitMode `json:"transit_mode"`
	TransitDate           *time.Time         `json:"transit_date"`
	FromStation           string             `json:"from_station"`
	ToStation             string             `json:"to_station"`
	DepartureTime         *time.Time         `json:"departure_time"`
	ArrivalTime           *time.Time         `json:"arrival_time"`
	SupervisorName        string             `json:"supervisor_name"`
	SupervisorMobile      string             `json:"supervisor_mobile"`
	PrimaryDriverName     string             `json:"primary_driver_name"`
	PrimaryDriverMobile   string             `json:"primary_driver_mobile"`
	SecondaryDriverName   string             `json:"secondary_driver_name"`
	SecondaryDriverMobile string             `json:"secondary_driver_mobile"`
	SealNumber            string             `json:"seal_number"`
	Remarks               string             `json:"remarks"`
}

type LoadRequest struct {
	BookingIDs []string `json:"booking_ids"`
	Remarks    string   `json:"remarks"`
}

type UnloadRequest struct {
	BookingIDs []string          `json:"booking_ids"`
	Conditions models.Conditions `json:"conditions"`
}

// Create opens a manifest on an active vehicle.
func (s *Service) Create(ctx context.Context, actor *session.User, req CreateRequest) (*models.OGPL, error) {
	vehicleID, err := ident.Parse(req.VehicleID)
	if err != nil {
		return nil, err
	}
	from, err := ident.Parse(req.FromStation)
	if err != nil {
		return nil, err
	}
	to, err := ident.Parse(req.ToStation)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, apperr.Validation("origin and destination station must differ")
	}
	mode := req.TransitMode
	if mode == "" {
		mode = models.TransitDirect
	}
	if !mode.Valid() {
		return nil, apperr.Validation("transit mode must be direct, hub or local")
	}
	if req.DepartureTime != nil && req.ArrivalTime != nil && req.ArrivalTime.Before(*req.DepartureTime) {
		return nil, apperr.Validation("arrival cannot be before departure")
	}
	if strings.TrimSpace(req.PrimaryDriverName) == "" {
		return nil, apperr.Validation("primary driver name is required")
	}

	vehicle, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != models.VehicleStatusActive {
		return nil, apperr.Validation("vehicle %s is %s, only active vehicles can be dispatched", vehicle.VehicleNumber, vehicle.Status)
	}

	now := s.now()
	number, err := s.nextNumber(ctx, now)
	if err != nil {
		return nil, err
	}
	transitDate := now
	if req.TransitDate != nil {
		transitDate = *req.TransitDate
	}

	o := &models.OGPL{
		OGPLNumber:       number,
		VehicleID:        vehicleID,
		TransitMode:      mode,
		TransitDate:      transitDate,
		FromStationID:    from,
		ToStationID:      to,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		SupervisorName:   strings.TrimSpace(req.SupervisorName),
		SupervisorMobile: strings.TrimSpace(req.SupervisorMobile),
		PrimaryDriver:    strings.TrimSpace(req.PrimaryDriverName),
		PrimaryMobile:    strings.TrimSpace(req.PrimaryDriverMobile),
		SecondaryDriver:  strings.TrimSpace(req.SecondaryDriverName),
		SecondaryMobile:  strings.TrimSpace(req.SecondaryDriverMobile),
		SealNumber:       strings.TrimSpace(req.SealNumber),
		Remarks:          strings.TrimSpace(req.Remarks),
		Status:           models.OGPLInTransit,
	}
	if actor != nil {
		o.CreatedBy = &actor.ID
	}
	if err := s.repo.CreateOGPL(ctx, o); err != nil {
		return nil, err
	}
	o.Vehicle = vehicle

	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    &o.FromStationID,
		EntityType:  "ogpl",
		EntityID:    o.ID.String(),
		Action:      models.AuditActionCreate,
		Description: "OGPL " + o.OGPLNumber + " created",
		After:       o,
	})
	return o, nil
}

func (s *Service) nextNumber(ctx context.Context, now time.Time) (string, error) {
	day := now.Format("20060102")
	n, err := s.seq.Incr(ctx, "ogpl:seq:"+day, 48*time.Hour)
	if err != nil {
		return "", apperr.Persistence(err, "could not allocate OGPL number")
	}
	return fmt.Sprintf("OGPL-%s-%04d", day, n), nil
}

// Load puts booked consignments on the manifest and moves them to
// in_transit. Duplicate ids in the request are loaded once.
func (s *Service) Load(ctx context.Context, actor *session.User, id string, req LoadRequest) (*models.OGPL, error) {
	ogplID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	bookingIDs, err := parseIDs(req.BookingIDs)
	if err != nil {
		return nil, err
	}
	if len(bookingIDs) == 0 {
		return nil, apperr.Validation("select at least one booking to load")
	}

	now := s.now()
	records := make([]models.LoadingRecord, 0, len(bookingIDs))
	for _, b := range bookingIDs {
		rec := models.LoadingRecord{BookingID: b, LoadedAt: now, Remarks: strings.TrimSpace(req.Remarks)}
		if actor != nil {
			rec.LoadedBy = &actor.ID
		}
		records = append(records, rec)
	}
	if err := s.repo.LoadBookings(ctx, ogplID, records); err != nil {
		return nil, err
	}

	o, err := s.repo.GetOGPL(ctx, ogplID)
	if err != nil {
		return nil, err
	}

	s.lists.InvalidateLists(ctx)
	s.publishAll(ctx, bookingIDs, func(b models.Booking) messages.BookingEvent {
		return messages.BookingEvent{
			Type:       messages.BookingLoaded,
			Status:     string(models.BookingInTransit),
			Location:   stationName(o.FromStation),
			OGPLNumber: o.OGPLNumber,
		}
	}, actor)
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    &o.FromStationID,
		EntityType:  "ogpl",
		EntityID:    o.ID.String(),
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("%d bookings loaded on OGPL %s", len(bookingIDs), o.OGPLNumber),
		After:       map[string]any{"booking_ids": bookingIDs},
	})
	return o, nil
}

// ValidateConditions checks every entry before anything is written. Damaged
// and missing goods need remarks.
func ValidateConditions(conds models.Conditions) error {
	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		c := conds[k]
		if !c.Status.Valid() {
			return apperr.Validation("booking %s: condition must be good, damaged or missing", k)
		}
		if c.Status != models.ConditionGood && strings.TrimSpace(c.Remarks) == "" {
			return apperr.Validation("booking %s: remarks are required when goods are %s", k, c.Status)
		}
	}
	return nil
}

// Unload completes an in-transit manifest. Bookings without an explicit
// condition are recorded as good; everything except missing is delivered.
func (s *Service) Unload(ctx context.Context, actor *session.User, id string, req UnloadRequest) (*models.UnloadingRecord, error) {
	ogplID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	bookingIDs, err := parseIDs(req.BookingIDs)
	if err != nil {
		return nil, err
	}
	if len(bookingIDs) == 0 {
		return nil, apperr.Validation("select at least one booking to unload")
	}
	if err := ValidateConditions(req.Conditions); err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID]bool, len(bookingIDs))
	for _, b := range bookingIDs {
		selected[b] = true
	}
	given := make(map[uuid.UUID]models.Condition, len(req.Conditions))
	for k, c := range req.Conditions {
		bookingID, err := ident.Parse(k)
		if err != nil {
			return nil, err
		}
		if !selected[bookingID] {
			return nil, apperr.Validation("condition given for booking %s which is not being unloaded", k)
		}
		if _, dup := given[bookingID]; dup {
			return nil, apperr.Validation("condition given twice for booking %s", bookingID)
		}
		given[bookingID] = c
	}

	o, err := s.repo.GetOGPL(ctx, ogplID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OGPLInTransit {
		return nil, apperr.Validation("OGPL %s is already completed", o.OGPLNumber)
	}
	onManifest := make(map[uuid.UUID]bool, len(o.LoadingRecords))
	for _, lr := range o.LoadingRecords {
		onManifest[lr.BookingID] = true
	}

	conds := make(models.Conditions, len(bookingIDs))
	var delivered []uuid.UUID
	for _, b := range bookingIDs {
		if !onManifest[b] {
			return nil, apperr.Validation("booking %s is not on OGPL %s", b, o.OGPLNumber)
		}
		c, ok := given[b]
		if !ok {
			c = models.Condition{Status: models.ConditionGood}
		}
		c.Remarks = strings.TrimSpace(c.Remarks)
		conds[b.String()] = c
		if c.Status != models.ConditionMissing {
			delivered = append(delivered, b)
		}
	}

	rec := &models.UnloadingRecord{
		OGPLID:     ogplID,
		UnloadedAt: s.now(),
		Conditions: datatypes.NewJSONType(conds),
	}
	if actor != nil {
		rec.UnloadedBy = &actor.ID
	}
	if err := s.repo.CompleteUnload(ctx, rec, delivered); err != nil {
		return nil, err
	}
	o.Status = models.OGPLCompleted
	rec.OGPL = o

	s.lists.InvalidateLists(ctx)
	s.publishAll(ctx, bookingIDs, func(b models.Booking) messages.BookingEvent {
		c := conds[b.ID.String()]
		status := models.BookingDelivered
		if c.Status == models.ConditionMissing {
			status = models.BookingInTransit
		}
		return messages.BookingEvent{
			Type:       messages.BookingUnloaded,
			Status:     string(status),
			Location:   stationName(o.ToStation),
			OGPLNumber: o.OGPLNumber,
			Condition:  string(c.Status),
			Remarks:    c.Remarks,
		}
	}, actor)
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    &o.ToStationID,
		EntityType:  "ogpl",
		EntityID:    o.ID.String(),
		Action:      models.AuditActionUpdate,
		Description: "OGPL " + o.OGPLNumber + " unloaded",
		After:       rec,
	})
	return rec, nil
}

// ListIncoming returns manifests still travelling to the branch.
func (s *Service) ListIncoming(ctx context.Context, actor *session.User, branchID string) ([]models.OGPL, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListIncomingOGPLs(ctx, scope)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.OGPL{}
	}
	return out, nil
}

func (s *Service) ListUnloadings(ctx context.Context, actor *session.User, branchID string) ([]models.UnloadingRecord, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListUnloadings(ctx, scope)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.UnloadingRecord{}
	}
	return out, nil
}

// PhotoUploadURL presigns an upload for a booking on an open manifest.
func (s *Service) PhotoUploadURL(ctx context.Context, id, bookingID, contentType string) (*photos.UploadURL, error) {
	ogplID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	bID, err := ident.Parse(bookingID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetOGPL(ctx, ogplID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OGPLInTransit {
		return nil, apperr.Validation("OGPL %s is already completed", o.OGPLNumber)
	}
	found := false
	for _, lr := range o.LoadingRecords {
		if lr.BookingID == bID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.Validation("booking %s is not on OGPL %s", bID, o.OGPLNumber)
	}
	return s.photos.GenerateUploadURL(ctx, ogplID, bID, contentType)
}

func (s *Service) publishAll(ctx context.Context, ids []uuid.UUID, build func(models.Booking) messages.BookingEvent, actor *session.User) {
	list, err := s.repo.ListBookingsByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Warn("could not load bookings for events")
		return
	}
	for _, b := range list {
		ev := build(b)
		ev.BookingID = b.ID.String()
		ev.LRNumber = b.LRNumber
		ev.OccurredAt = s.now()
		if b.BranchID != nil {
			ev.BranchID = b.BranchID.String()
		}
		if actor != nil {
			ev.ActorID = actor.ID.String()
		}
		if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"booking_id": ev.BookingID,
				"type":       ev.Type,
			}).Warn("booking event not published")
		}
	}
}

// parseIDs validates and de-duplicates, keeping first-seen order.
func parseIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := ident.Parse(r)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func stationName(b *models.Branch) string {
	if b == nil {
		return ""
	}
	return b.Name
}
