package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	model "github.com/adelorme/qr1board/models"
	"gorm.io/gorm"
)

// ActionPatch is one edited row from the grid: the target action_id plus the
// allow-listed mutable fields, each nil when the edit buffer did not touch
// it. Everything outside this struct can never be changed through bulk
// update, action_id included.
//
// DueDate has no "clear" form on purpose: the due date is mandatory for every
// action, so an edit nulling it could never be valid.
type ActionPatch struct {
	ActionID                  string     `json:"action_id"`
	DeptOwner                 *string    `json:"dept_owner,omitempty"`
	OwnerName                 *string    `json:"owner_name,omitempty"`
	SupportNeeded             *string    `json:"support_needed,omitempty"`
	Priority                  *string    `json:"priority,omitempty"`
	DueDate                   *time.Time `json:"due_date,omitempty"`
	Status                    *string    `json:"status,omitempty"`
	Blockage                  *string    `json:"blockage,omitempty"`
	NextStep                  *string    `json:"next_step,omitempty"`
	ProofLink                 *string    `json:"proof_link,omitempty"`
	StandardUpdated           *bool      `json:"standard_updated,omitempty"`
	QualityValidationRequired *bool      `json:"quality_validation_required,omitempty"`
}

// apply overwrites the supplied fields on the action and returns the map of
// written values for the audit row.
func (p ActionPatch) apply(a *model.Action) map[string]interface{} {
	changes := make(map[string]interface{})
	if p.DeptOwner != nil {
		a.DeptOwner = *p.DeptOwner
		changes["dept_owner"] = *p.DeptOwner
	}
	if p.OwnerName != nil {
		a.OwnerName = *p.OwnerName
		changes["owner_name"] = *p.OwnerName
	}
	if p.SupportNeeded != nil {
		a.SupportNeeded = *p.SupportNeeded
		changes["support_needed"] = *p.SupportNeeded
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
		changes["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		due := dateOnly(*p.DueDate)
		a.DueDate = &due
		changes["due_date"] = due.Format("2006-01-02")
	}
	if p.Status != nil {
		a.Status = *p.Status
		changes["status"] = *p.Status
	}
	if p.Blockage != nil {
		a.Blockage = *p.Blockage
		changes["blockage"] = *p.Blockage
	}
	if p.NextStep != nil {
		a.NextStep = *p.NextStep
		changes["next_step"] = *p.NextStep
	}
	if p.ProofLink != nil {
		a.ProofLink = *p.ProofLink
		changes["proof_link"] = *p.ProofLink
	}
	if p.StandardUpdated != nil {
		a.StandardUpdated = *p.StandardUpdated
		changes["standard_updated"] = *p.StandardUpdated
	}
	if p.QualityValidationRequired != nil {
		a.QualityValidationRequired = *p.QualityValidationRequired
		changes["quality_validation_required"] = *p.QualityValidationRequired
	}
	return changes
}

// BulkUpdate reconciles a batch of sparse grid edits against the store.
//
// Rows whose action_id no longer exists are skipped silently: stale ids in a
// client-side edit buffer are normal, not an error. All applied rows commit
// in one transaction; a store failure partway rolls everything back.
//
// This path runs no field validation: the grid must stay able to park an
// incomplete edit (say a blocked action before the blockage reason is typed
// in) without the save being rejected.
func (s *ActionService) BulkUpdate(patches []ActionPatch) error {
	if len(patches) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		applied := 0
		for _, p := range patches {
			var a model.Action
			err := tx.Where("action_id = ?", p.ActionID).First(&a).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[BulkUpdate] Action %s not found, skipping row", p.ActionID)
				continue
			}
			if err != nil {
				log.Printf("[BulkUpdate] Error fetching action %s: %v", p.ActionID, err)
				return fmt.Errorf("failed to fetch action %s: %w", p.ActionID, err)
			}

			changes := p.apply(&a)

			closedBefore := a.ClosedAt
			enforceClosure(&a)
			if (closedBefore == nil) != (a.ClosedAt == nil) {
				if a.ClosedAt != nil {
					changes["closed_at"] = a.ClosedAt.Format("2006-01-02")
				} else {
					changes["closed_at"] = nil
				}
			}

			if err := tx.Save(&a).Error; err != nil {
				log.Printf("[BulkUpdate] Error saving action %s: %v", p.ActionID, err)
				return fmt.Errorf("failed to save action %s: %w", p.ActionID, err)
			}

			if len(changes) > 0 {
				if err := writeAudit(tx, a.ActionID, model.AuditEventBulkUpdate, changes); err != nil {
					return err
				}
			}
			applied++
		}
		log.Printf("[BulkUpdate] Applied %d of %d edited row(s)", applied, len(patches))
		return nil
	})
}
