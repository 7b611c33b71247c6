package services

import (
	"testing"
	"time"

	model "github.com/adelorme/qr1board/models"
	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestBulkUpdateSparsePatchLeavesOtherFieldsAlone(t *testing.T) {
	patches := gomonkey.ApplyFunc(time.Now, func() time.Time { return FixedTime })
	defer patches.Reset()

	s := newTestService(t)

	mustCreate(t, s, model.Action{Problem: "first"})
	original := mustCreate(t, s, model.Action{
		Problem:   "Rayure sur pièce",
		OwnerName: "Claire",
		DeptOwner: "Qualité",
		Priority:  model.PriorityP2,
		DueDate:   date(2025, time.March, 10),
		Status:    model.StatusInProgress,
		NextStep:  "Essai mousse",
	})
	require.Equal(t, "A-0002", original.ActionID)

	err := s.BulkUpdate([]ActionPatch{
		{ActionID: "A-0002", Status: strPtr(model.StatusDone)},
	})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", "A-0002").First(&updated).Error)

	assert.Equal(t, model.StatusDone, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, FixedTime.Format("2006-01-02"), updated.ClosedAt.Format("2006-01-02"))

	// Everything the patch did not touch is byte-for-byte intact.
	assert.Equal(t, original.Problem, updated.Problem)
	assert.Equal(t, original.OwnerName, updated.OwnerName)
	assert.Equal(t, original.DeptOwner, updated.DeptOwner)
	assert.Equal(t, original.Priority, updated.Priority)
	assert.Equal(t, original.NextStep, updated.NextStep)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, original.DueDate.Format("2006-01-02"), updated.DueDate.Format("2006-01-02"))
}

func TestBulkUpdateUnknownIDIsSilentNoOp(t *testing.T) {
	s := newTestService(t)

	kept := mustCreate(t, s, model.Action{Problem: "p", OwnerName: "Claire"})

	err := s.BulkUpdate([]ActionPatch{
		{ActionID: "A-9999", OwnerName: strPtr("Personne")},
		{ActionID: kept.ActionID, OwnerName: strPtr("Marc")},
	})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", kept.ActionID).First(&updated).Error)
	assert.Equal(t, "Marc", updated.OwnerName)
}

func TestBulkUpdateReopeningClearsClosedAt(t *testing.T) {
	patches := gomonkey.ApplyFunc(time.Now, func() time.Time { return FixedTime })
	defer patches.Reset()

	s := newTestService(t)

	done := mustCreate(t, s, model.Action{Problem: "p", Status: model.StatusDone})
	require.NotNil(t, done.ClosedAt)

	err := s.BulkUpdate([]ActionPatch{
		{ActionID: done.ActionID, Status: strPtr(model.StatusInProgress), NextStep: strPtr("Reprendre l'essai")},
	})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", done.ActionID).First(&updated).Error)
	assert.Equal(t, model.StatusInProgress, updated.Status)
	assert.Nil(t, updated.ClosedAt)
}

func TestBulkUpdateKeepsExistingClosureDate(t *testing.T) {
	s := newTestService(t)

	closedOn := date(2025, time.February, 20)
	done := mustCreate(t, s, model.Action{Problem: "p", Status: model.StatusDone, ClosedAt: closedOn})

	// A patch that does not touch status must not move the closure date.
	err := s.BulkUpdate([]ActionPatch{
		{ActionID: done.ActionID, ProofLink: strPtr("https://wiki/preuve")},
	})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", done.ActionID).First(&updated).Error)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, closedOn.Format("2006-01-02"), updated.ClosedAt.Format("2006-01-02"))
	assert.Equal(t, "https://wiki/preuve", updated.ProofLink)
}

func TestBulkUpdateAppliesAllSuppliedFields(t *testing.T) {
	s := newTestService(t)

	a := mustCreate(t, s, model.Action{Problem: "p"})

	due := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	err := s.BulkUpdate([]ActionPatch{{
		ActionID:                  a.ActionID,
		DeptOwner:                 strPtr("Maintenance"),
		OwnerName:                 strPtr("Marc"),
		SupportNeeded:             strPtr("Fenêtre d'arrêt ligne 2"),
		Priority:                  strPtr(model.PriorityP1),
		DueDate:                   &due,
		Status:                    strPtr(model.StatusBlocked),
		Blockage:                  strPtr("Attente pièce / spare"),
		NextStep:                  strPtr("Relancer le fournisseur"),
		StandardUpdated:           boolPtr(true),
		QualityValidationRequired: boolPtr(true),
	}})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", a.ActionID).First(&updated).Error)
	assert.Equal(t, "Maintenance", updated.DeptOwner)
	assert.Equal(t, "Marc", updated.OwnerName)
	assert.Equal(t, "Fenêtre d'arrêt ligne 2", updated.SupportNeeded)
	assert.Equal(t, model.PriorityP1, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2025-04-01", updated.DueDate.Format("2006-01-02"))
	assert.Equal(t, model.StatusBlocked, updated.Status)
	assert.Equal(t, "Attente pièce / spare", updated.Blockage)
	assert.True(t, updated.StandardUpdated)
	assert.True(t, updated.QualityValidationRequired)
	assert.Nil(t, updated.ClosedAt)
}

func TestBulkUpdateDoesNotValidate(t *testing.T) {
	s := newTestService(t)

	a := mustCreate(t, s, model.Action{Problem: "p", OwnerName: "Claire", NextStep: ""})

	// Blocked with no blockage reason would fail ValidateActionFields, but
	// the reconciliation path is deliberately permissive.
	err := s.BulkUpdate([]ActionPatch{
		{ActionID: a.ActionID, Status: strPtr(model.StatusBlocked)},
	})
	require.NoError(t, err)

	var updated model.Action
	require.NoError(t, s.db.Where("action_id = ?", a.ActionID).First(&updated).Error)
	assert.Equal(t, model.StatusBlocked, updated.Status)
	assert.Empty(t, updated.Blockage)
}

func TestBulkUpdateEmptyBatch(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.BulkUpdate(nil))
}

func TestBulkUpdateWritesAuditTrail(t *testing.T) {
	s := newTestService(t)

	a := mustCreate(t, s, model.Action{Problem: "p"})

	require.NoError(t, s.BulkUpdate([]ActionPatch{
		{ActionID: a.ActionID, Priority: strPtr(model.PriorityP1)},
	}))

	entries, err := s.GetActionHistory(a.ActionID)
	require.NoError(t, err)
	require.Len(t, entries, 2) // create + bulk_update, newest first
	assert.Equal(t, model.AuditEventBulkUpdate, entries[0].Event)
	assert.Contains(t, string(entries[0].Changes), "P1")
}
