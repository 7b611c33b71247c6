package services

import (
	"strings"
	"time"

	model "github.com/adelorme/qr1board/models"
)

// RuleKind identifies which Lean rule a proposed action state violates.
type RuleKind string

const (
	MissingOwner      RuleKind = "missing_owner"
	MissingDepartment RuleKind = "missing_department"
	MissingDueDate    RuleKind = "missing_due_date"
	MissingNextStep   RuleKind = "missing_next_step"
	MissingBlockage   RuleKind = "missing_blockage"
	MissingProof      RuleKind = "missing_proof"
)

// RuleViolation is the typed result of a failed validation, carrying the
// operator-facing message so the client can render it next to the field.
// Advisory violations (the proof rule) are reported but never block a write.
type RuleViolation struct {
	Kind     RuleKind `json:"kind"`
	Message  string   `json:"message"`
	Advisory bool     `json:"advisory"`
}

func (v *RuleViolation) Error() string { return v.Message }

// ValidateActionFields checks the Lean process rules on a proposed action
// state. Pure: no I/O, no mutation (in particular it never trims the inputs,
// trimming for persistence is the caller's job). Rules run in a fixed order
// and the first failure wins.
//
// The proof rule is deliberately advisory only: the board computes it and
// shows the message, but closing without a proof link has always been
// allowed. Keep it that way.
func ValidateActionFields(status, ownerName, deptOwner string, dueDate *time.Time, nextStep, blockage, proofLink string) *RuleViolation {
	if strings.TrimSpace(ownerName) == "" {
		return &RuleViolation{Kind: MissingOwner, Message: "Responsable obligatoire."}
	}
	if strings.TrimSpace(deptOwner) == "" {
		return &RuleViolation{Kind: MissingDepartment, Message: "Département responsable obligatoire."}
	}
	if dueDate == nil {
		return &RuleViolation{Kind: MissingDueDate, Message: "Échéance obligatoire."}
	}

	if (status == model.StatusInProgress || status == model.StatusBlocked) && strings.TrimSpace(nextStep) == "" {
		return &RuleViolation{Kind: MissingNextStep, Message: "Prochaine étape obligatoire si Statut = En cours / Bloqué."}
	}

	if status == model.StatusBlocked && strings.TrimSpace(blockage) == "" {
		return &RuleViolation{Kind: MissingBlockage, Message: "Blocage obligatoire si Statut = Bloqué."}
	}

	if status == model.StatusDone && strings.TrimSpace(proofLink) == "" {
		return &RuleViolation{Kind: MissingProof, Message: "Preuve (lien) recommandée pour clôturer (Statut = Fait).", Advisory: true}
	}

	return nil
}
