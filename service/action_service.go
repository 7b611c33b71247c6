package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	model "github.com/adelorme/qr1board/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActionService owns the action lifecycle: creation, querying with derived
// fields, bulk reconciliation, dashboard aggregates, lookup lists and proof
// storage. The *gorm.DB is injected so tests can hand it their own store.
type ActionService struct {
	db       *gorm.DB
	s3Client *s3.S3
}

// NewActionService builds the service. Proof storage (S3) is optional: when
// the QR1_S3_* variables are absent the proof-upload endpoint reports itself
// unconfigured and everything else works normally.
func NewActionService(db *gorm.DB) (*ActionService, error) {
	svc := &ActionService{db: db}

	region := os.Getenv("QR1_S3_REGION")
	endpoint := os.Getenv("QR1_S3_ENDPOINT")
	accessKey := os.Getenv("QR1_S3_ACCESS_KEY")
	secretKey := os.Getenv("QR1_S3_SECRET_KEY")

	if region == "" || endpoint == "" || accessKey == "" || secretKey == "" {
		log.Println("Warning: proof storage not configured (QR1_S3_* variables missing)")
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(endpoint),
		DisableSSL:       aws.Bool(false),
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	svc.s3Client = s3.New(sess)
	return svc, nil
}

// NextActionID previews the next human-readable identifier: max surrogate key
// plus one, zero-padded (A-0001, A-0002, ...). Ids are never recomputed or
// reused, even for rows deleted by hand in the store.
func (s *ActionService) NextActionID() (string, error) {
	n, err := nextSequence(s.db)
	if err != nil {
		return "", err
	}
	return formatActionID(n), nil
}

func nextSequence(db *gorm.DB) (int64, error) {
	var maxID int64
	if err := db.Model(&model.Action{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		log.Printf("[NextActionID] Error reading max action id: %v", err)
		return 0, fmt.Errorf("failed to read max action id: %w", err)
	}
	return maxID + 1, nil
}

func formatActionID(n int64) string {
	return fmt.Sprintf("A-%04d", n)
}

// CreateAction persists a new action. Validation is the caller's business and
// is NOT run here. The identifier is derived inside the same transaction as
// the insert, so the unique index on action_id rejects the loser if two
// creators ever race; an ActionID already set by the caller is kept as-is.
func (s *ActionService) CreateAction(a *model.Action) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if a.ActionID == "" {
			n, err := nextSequence(tx)
			if err != nil {
				return err
			}
			a.ActionID = formatActionID(n)
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		enforceClosure(a)

		if err := tx.Create(a).Error; err != nil {
			log.Printf("[CreateAction] Error creating action %s: %v", a.ActionID, err)
			return fmt.Errorf("failed to create action: %w", err)
		}

		if err := writeAudit(tx, a.ActionID, model.AuditEventCreate, map[string]interface{}{
			"status":   a.Status,
			"priority": a.Priority,
			"problem":  a.Problem,
		}); err != nil {
			return err
		}
		log.Printf("[CreateAction] Action created: %s", a.ActionID)
		return nil
	})
}

// enforceClosure keeps closed_at in lockstep with the status: a transition
// into Fait stamps today unless a date is already set, anything else clears
// it.
func enforceClosure(a *model.Action) {
	if a.Status == model.StatusDone {
		if a.ClosedAt == nil {
			today := dateOnly(time.Now())
			a.ClosedAt = &today
		}
		return
	}
	a.ClosedAt = nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ActionFilters are the composable query constraints shared by the dashboard
// and the editable grid. Zero values mean "no constraint".
type ActionFilters struct {
	DeptOwner string
	Type      string
	Status    string
	Priority  string
	OnlyOpen  bool
	Search    string
}

// ActionView is a presentation-ready action: the stored row plus the two
// derived fields, recomputed against today on every read. Lateness can flip
// with no write happening, so these are never persisted.
type ActionView struct {
	model.Action
	IsLate  bool `json:"is_late"`
	AgeDays int  `json:"age_days"`
}

// QueryActions runs the shared filter contract and projects the results.
//
// Search matches the text as a substring of the problem OR the countermeasure
// with the store's own LIKE semantics (case-insensitive for ASCII on SQLite,
// case-sensitive on postgres).
//
// Ordering is fixed: priority ascending (P1 < P2 < P3 lexicographically),
// then due date ascending with null dates last, then surrogate id descending
// so the newest of otherwise-equal rows comes first. The dashboard's "top
// priorities" view relies on exactly this order.
func (s *ActionService) QueryActions(f ActionFilters) ([]ActionView, error) {
	q := s.db.Model(&model.Action{})

	if f.DeptOwner != "" {
		q = q.Where("dept_owner = ?", f.DeptOwner)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.OnlyOpen {
		q = q.Where("status NOT IN ?", model.ClosedStatuses)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("problem LIKE ? OR countermeasure LIKE ?", like, like)
	}

	// (due_date IS NULL) sorts false before true on both dialects, which is
	// exactly "nulls last".
	q = q.Order("priority ASC").
		Order("(due_date IS NULL) ASC").
		Order("due_date ASC").
		Order("id DESC")

	var rows []model.Action
	if err := q.Find(&rows).Error; err != nil {
		log.Printf("[QueryActions] Error querying actions: %v", err)
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}

	today := dateOnly(time.Now())
	views := make([]ActionView, 0, len(rows))
	for _, a := range rows {
		views = append(views, projectAction(a, today))
	}
	return views, nil
}

// projectAction computes the read-time derived fields against the given day.
func projectAction(a model.Action, today time.Time) ActionView {
	v := ActionView{Action: a}
	if !model.IsClosed(a.Status) && a.DueDate != nil && dateOnly(*a.DueDate).Before(today) {
		v.IsLate = true
	}
	v.AgeDays = int(today.Sub(dateOnly(a.CreatedAt)).Hours() / 24)
	return v
}

// GetActionHistory returns the audit trail of one action, newest first.
func (s *ActionService) GetActionHistory(actionID string) ([]model.ActionAudit, error) {
	var entries []model.ActionAudit
	if err := s.db.Where("action_id = ?", actionID).Order("id DESC").Find(&entries).Error; err != nil {
		log.Printf("[GetActionHistory] Error fetching history for %s: %v", actionID, err)
		return nil, fmt.Errorf("failed to fetch action history: %w", err)
	}
	return entries, nil
}

func writeAudit(tx *gorm.DB, actionID, event string, changes map[string]interface{}) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		log.Printf("[writeAudit] Error marshaling changes for %s: %v", actionID, err)
		payload = []byte("{}")
	}
	entry := model.ActionAudit{
		ActionID:  actionID,
		Event:     event,
		Changes:   datatypes.JSON(payload),
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		log.Printf("[writeAudit] Error writing audit row for %s: %v", actionID, err)
		return fmt.Errorf("failed to write audit row: %w", err)
	}
	return nil
}
