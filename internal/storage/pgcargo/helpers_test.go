package pgcargo

import (
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// newConditions marks the first booking good and the rest missing.
func newConditions(ids ...uuid.UUID) datatypes.JSONType[models.Conditions] {
	c := models.Conditions{}
	for i, id := range ids {
		if i == 0 {
			c[id.String()] = models.Condition{Status: models.ConditionGood}
			continue
		}
		c[id.String()] = models.Condition{Status: models.ConditionMissing, Remarks: "not found in vehicle"}
	}
	return datatypes.NewJSONType(c)
}
