package vehicles

import (
	"context"
	"regexp"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	ListVehicles(ctx context.Context, branchID *uuid.UUID) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	SaveVehicle(ctx context.Context, v *models.Vehicle) error
	UpdateVehicleStatus(ctx context.Context, id uuid.UUID, status models.VehicleStatus) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type Service struct {
	repo    Repository
	auditor Auditor
	log     logrus.FieldLogger
}

func NewService(repo Repository, auditor Auditor, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, auditor: auditor, log: log.WithField("component", "vehicles")}
}

// Plates are stored upper case without spaces, e.g. MH12AB1234.
var plateRe = regexp.MustCompile(`^[A-Z0-9-]{4,20}$`)

func normalizePlate(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

type VehicleRequest struct {
	BranchID            string               `json:"branch_id"`
	VehicleNumber       string               `json:"vehicle_number"`
	Type                string               `json:"type"`
	OwnershipType       models.OwnershipType `json:"ownership_type"`
	Make                string               `json:"make"`
	Model               string               `json:"model"`
	Year                int                  `json:"year"`
	Capacity            string               `json:"capacity"`
	Status              models.VehicleStatus `json:"status"`
	LastMaintenanceDate *time.Time           `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time           `json:"next_maintenance_date"`
}

func (r VehicleRequest) apply(v *models.Vehicle, fallbackBranch *uuid.UUID) error {
	branchID, err := ident.ParseOptional(r.BranchID)
	if err != nil {
		return err
	}
	if branchID == nil {
		branchID = fallbackBranch
	}

	v.BranchID = branchID
	v.VehicleNumber = normalizePlate(r.VehicleNumber)
	v.Type = strings.TrimSpace(r.Type)
	v.OwnershipType = r.OwnershipType
	v.Make = strings.TrimSpace(r.Make)
	v.Model = strings.TrimSpace(r.Model)
	v.Year = r.Year
	v.Capacity = strings.TrimSpace(r.Capacity)
	v.Status = r.Status
	v.LastMaintenanceDate = r.LastMaintenanceDate
	v.NextMaintenanceDate = r.NextMaintenanceDate
	if v.Status == "" {
		v.Status = models.VehicleStatusActive
	}
	if v.OwnershipType == "" {
		v.OwnershipType = models.OwnershipOwn
	}
	return validate(v)
}

func validate(v *models.Vehicle) error {
	if !plateRe.MatchString(v.VehicleNumber) {
		return apperr.Validation("vehicle number %q is not valid", v.VehicleNumber)
	}
	if !v.OwnershipType.Valid() {
		return apperr.Validation("ownership type must be own, hired or attached")
	}
	if !v.Status.Valid() {
		return apperr.Validation("unknown vehicle status %q", v.Status)
	}
	if v.Year != 0 && (v.Year < 1950 || v.Year > time.Now().Year()+1) {
		return apperr.Validation("vehicle year %d is out of range", v.Year)
	}
	if v.LastMaintenanceDate != nil && v.NextMaintenanceDate != nil && v.NextMaintenanceDate.Before(*v.LastMaintenanceDate) {
		return apperr.Validation("next maintenance cannot be before last maintenance")
	}
	return nil
}

// List returns the fleet of the requested branch, else the caller's,
// ordered by plate number.
func (s *Service) List(ctx context.Context, actor *session.User, branchID string) ([]models.Vehicle, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListVehicles(ctx, scope)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Vehicle{}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, actor *session.User, req VehicleRequest) (*models.Vehicle, error) {
	var fallback *uuid.UUID
	if actor != nil {
		fallback = actor.BranchID
	}
	v := &models.Vehicle{}
	if err := req.apply(v, fallback); err != nil {
		return nil, err
	}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	s.record(ctx, actor, v, models.AuditActionCreate, nil, v)
	return v, nil
}

func (s *Service) Update(ctx context.Context, actor *session.User, id string, req VehicleRequest) (*models.Vehicle, error) {
	vehicleID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	v, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	before := *v
	if err := req.apply(v, before.BranchID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveVehicle(ctx, v); err != nil {
		return nil, err
	}

	s.record(ctx, actor, v, models.AuditActionUpdate, before, v)
	return v, nil
}

// UpdateStatus changes only the status column.
func (s *Service) UpdateStatus(ctx context.Context, actor *session.User, id string, status models.VehicleStatus) (*models.Vehicle, error) {
	vehicleID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation("unknown vehicle status %q", status)
	}
	v, err := s.repo.UpdateVehicleStatus(ctx, vehicleID, status)
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, v, models.AuditActionUpdate, nil, map[string]any{"status": status})
	return v, nil
}

func (s *Service) Delete(ctx context.Context, actor *session.User, id string) error {
	vehicleID, err := ident.Parse(id)
	if err != nil {
		return err
	}
	v, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteVehicle(ctx, vehicleID); err != nil {
		return err
	}

	s.record(ctx, actor, v, models.AuditActionDelete, v, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor *session.User, v *models.Vehicle, action models.AuditAction, before, after any) {
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    v.BranchID,
		EntityType:  "vehicle",
		EntityID:    v.ID.String(),
		Action:      action,
		Description: "vehicle " + v.VehicleNumber + " " + string(action) + "d",
		Before:      before,
		After:       after,
	})
}
