package models

import "time"

// Status vocabulary for an action. The board is used on a French shop floor,
// so the persisted values are the French labels the operators see.
const (
	StatusTodo       = "À faire"
	StatusInProgress = "En cours"
	StatusBlocked    = "Bloqué"
	StatusDone       = "Fait"
	StatusCancelled  = "Annulé"
)

// Priority vocabulary. Lexicographic order matches business order (P1 first).
const (
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

// ClosedStatuses are the statuses excluded by the "open only" filter and the
// open/late KPI counts.
var ClosedStatuses = []string{StatusDone, StatusCancelled}

// Action is the single tracked entity of the QR1 board: a corrective or
// preventive task with an owner, a priority, a due date and a status.
type Action struct {
	// ID is the internal surrogate key. ActionID (A-0001, A-0002, ...) is the
	// externally visible identifier, assigned once at creation and never
	// reused.
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ActionID  string    `gorm:"size:20;uniqueIndex;not null" json:"action_id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"size:100;default:''" json:"created_by"`

	Zone    string `gorm:"size:100;default:''" json:"zone"`
	Line    string `gorm:"size:100;default:''" json:"line"`
	Machine string `gorm:"size:100;default:''" json:"machine"`

	// Type is the problem category (Qualité, Performance, Flux, ...); M6 is
	// the root-cause category from the 6M taxonomy.
	Type string `gorm:"size:50;default:''" json:"type"`
	M6   string `gorm:"size:30;default:''" json:"m6"`

	Problem string `gorm:"type:text" json:"problem"`
	Impact  string `gorm:"size:200;default:''" json:"impact"`

	Containment    string `gorm:"type:text" json:"containment"`
	RootCause      string `gorm:"type:text" json:"root_cause"`
	Countermeasure string `gorm:"type:text" json:"countermeasure"`
	ActionKind     string `gorm:"size:50;default:''" json:"action_kind"`

	DeptOwner     string `gorm:"size:50;default:''" json:"dept_owner"`
	OwnerName     string `gorm:"size:100;default:''" json:"owner_name"`
	SupportNeeded string `gorm:"size:200;default:''" json:"support_needed"`

	Priority string     `gorm:"size:10;default:'P3'" json:"priority"`
	DueDate  *time.Time `json:"due_date"`

	Status   string `gorm:"size:20;default:'À faire'" json:"status"`
	Blockage string `gorm:"size:200;default:''" json:"blockage"`
	NextStep string `gorm:"type:text" json:"next_step"`

	// ClosedAt is non-nil exactly when Status == StatusDone. Every write path
	// that can change Status re-enforces this.
	ClosedAt                  *time.Time `json:"closed_at"`
	ProofLink                 string     `gorm:"size:300;default:''" json:"proof_link"`
	StandardUpdated           bool       `gorm:"default:false" json:"standard_updated"`
	QualityValidationRequired bool       `gorm:"default:false" json:"quality_validation_required"`
}

// IsClosed reports whether the status takes the action out of the open set.
func IsClosed(status string) bool {
	return status == StatusDone || status == StatusCancelled
}
