package audit

import (
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/storage/pgcargo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID          uuid.UUID          `json:"id"`
	CreatedAt   string             `json:"created_at"`
	BranchID    *uuid.UUID         `json:"branch_id"`
	UserID      *uuid.UUID         `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	BeforeData  string             `json:"before_data"`
	AfterData   string             `json:"after_data"`
}

// GET /api/admin/audit-logs?entity_type=booking&entity_id=...&branch_id=...&user_id=...
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := ident.ParseOptional(c.Query("branch_id"))
		if err != nil {
			return err
		}
		userID, err := ident.ParseOptional(c.Query("user_id"))
		if err != nil {
			return err
		}

		logs, err := svc.List(c.UserContext(), pgcargo.AuditFilter{
			BranchID:   branchID,
			UserID:     userID,
			EntityType: c.Query("entity_type"),
			EntityID:   c.Query("entity_id"),
			Limit:      c.QueryInt("limit", 200),
		})
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				BranchID:    l.BranchID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}

		return c.JSON(resp)
	}
}
