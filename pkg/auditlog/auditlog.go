package auditlog

import (
	"log"

	"stockroom/internal/repository"
	"stockroom/pkg/models"
)

type Auditlog struct {
	r *repository.Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records an action against a resource together with the acting user.
// Failures are logged and swallowed: the audit trail must never fail the
// operation it describes after the transaction committed.
func (a *Auditlog) Log(action string, actingUserID *int, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = actingUserID

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}

	log.Println("Created AuditLog entry for id ", auditLog.ResourceID)
}

func NewAuditLog(repository *repository.Repository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
