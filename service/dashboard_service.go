package services

import (
	"fmt"
	"log"
	"time"

	model "github.com/adelorme/qr1board/models"
)

// KPIReport is the one-page dashboard header: four counters, each evaluated
// fresh from the store on every call. No cached or incremental counters.
type KPIReport struct {
	Open     int64 `json:"open"`
	Late     int64 `json:"late"`
	Blocked  int64 `json:"blocked"`
	Closed7d int64 `json:"closed_7d"`
}

// ParetoEntry is one bar of the open-actions-by-type pareto.
type ParetoEntry struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// KPIs runs the four independent dashboard counts against today.
func (s *ActionService) KPIs() (KPIReport, error) {
	today := dateOnly(time.Now())
	last7 := today.AddDate(0, 0, -7)

	var report KPIReport

	if err := s.db.Model(&model.Action{}).
		Where("status NOT IN ?", model.ClosedStatuses).
		Count(&report.Open).Error; err != nil {
		return report, countErr("open", err)
	}

	if err := s.db.Model(&model.Action{}).
		Where("status NOT IN ?", model.ClosedStatuses).
		Where("due_date IS NOT NULL AND due_date < ?", today).
		Count(&report.Late).Error; err != nil {
		return report, countErr("late", err)
	}

	if err := s.db.Model(&model.Action{}).
		Where("status = ?", model.StatusBlocked).
		Count(&report.Blocked).Error; err != nil {
		return report, countErr("blocked", err)
	}

	if err := s.db.Model(&model.Action{}).
		Where("status = ?", model.StatusDone).
		Where("closed_at IS NOT NULL AND closed_at >= ?", last7).
		Count(&report.Closed7d).Error; err != nil {
		return report, countErr("closed_7d", err)
	}

	return report, nil
}

func countErr(name string, err error) error {
	log.Printf("[KPIs] Error counting %s actions: %v", name, err)
	return fmt.Errorf("failed to count %s actions: %w", name, err)
}

// ParetoByType groups the currently open actions by type, most frequent
// first. The secondary type-name sort keeps ties deterministic between calls.
func (s *ActionService) ParetoByType() ([]ParetoEntry, error) {
	var entries []ParetoEntry
	err := s.db.Model(&model.Action{}).
		Select("type AS type, COUNT(id) AS count").
		Where("status NOT IN ?", model.ClosedStatuses).
		Group("type").
		Order("count DESC").
		Order("type ASC").
		Scan(&entries).Error
	if err != nil {
		log.Printf("[ParetoByType] Error grouping open actions: %v", err)
		return nil, fmt.Errorf("failed to compute pareto: %w", err)
	}
	return entries, nil
}

// ClosedLast7Days returns the full rows behind the closed_7d counter, newest
// closure first.
func (s *ActionService) ClosedLast7Days() ([]ActionView, error) {
	today := dateOnly(time.Now())
	last7 := today.AddDate(0, 0, -7)

	var rows []model.Action
	err := s.db.Model(&model.Action{}).
		Where("status = ?", model.StatusDone).
		Where("closed_at IS NOT NULL AND closed_at >= ?", last7).
		Order("closed_at DESC").
		Find(&rows).Error
	if err != nil {
		log.Printf("[ClosedLast7Days] Error fetching recent closures: %v", err)
		return nil, fmt.Errorf("failed to fetch recent closures: %w", err)
	}

	views := make([]ActionView, 0, len(rows))
	for _, a := range rows {
		views = append(views, projectAction(a, today))
	}
	return views, nil
}
