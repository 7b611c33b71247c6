package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var exportHeader = []string{
	"action_id", "created_at", "created_by", "zone", "line", "machine",
	"type", "m6", "problem", "impact", "containment", "root_cause",
	"countermeasure", "action_kind", "dept_owner", "owner_name",
	"support_needed", "priority", "due_date", "status", "blockage",
	"next_step", "closed_at", "proof_link", "standard_updated",
	"quality_validation_required", "is_late", "age_days",
}

// WriteCSV streams the full board (open and closed actions alike) as CSV, in
// the same order and with the same derived fields as the grid. A read-only
// projection: nothing here can write back.
func (s *ActionService) WriteCSV(w io.Writer) error {
	views, err := s.QueryActions(ActionFilters{})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range views {
		dueDate := ""
		if v.DueDate != nil {
			dueDate = v.DueDate.Format("2006-01-02")
		}
		closedAt := ""
		if v.ClosedAt != nil {
			closedAt = v.ClosedAt.Format("2006-01-02")
		}
		record := []string{
			v.ActionID,
			v.CreatedAt.Format("2006-01-02 15:04:05"),
			v.CreatedBy,
			v.Zone,
			v.Line,
			v.Machine,
			v.Type,
			v.M6,
			v.Problem,
			v.Impact,
			v.Containment,
			v.RootCause,
			v.Countermeasure,
			v.ActionKind,
			v.DeptOwner,
			v.OwnerName,
			v.SupportNeeded,
			v.Priority,
			dueDate,
			v.Status,
			v.Blockage,
			v.NextStep,
			closedAt,
			v.ProofLink,
			strconv.FormatBool(v.StandardUpdated),
			strconv.FormatBool(v.QualityValidationRequired),
			strconv.FormatBool(v.IsLate),
			strconv.Itoa(v.AgeDays),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
