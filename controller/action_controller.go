package controller

import (
	"log"
	"net/http"
	"strings"
	"time"

	model "github.com/adelorme/qr1board/models"
	service "github.com/adelorme/qr1board/service"

	"github.com/gin-gonic/gin"
)

// ActionController manages HTTP requests for the QR1 board.
type ActionController struct {
	service *service.ActionService
}

// NewActionController initializes the controller with the service
func NewActionController(service *service.ActionService) *ActionController {
	return &ActionController{service}
}

type createActionRequest struct {
	CreatedBy                 string `json:"created_by"`
	Zone                      string `json:"zone"`
	Line                      string `json:"line"`
	Machine                   string `json:"machine"`
	Type                      string `json:"type"`
	M6                        string `json:"m6"`
	Problem                   string `json:"problem"`
	Impact                    string `json:"impact"`
	Containment               string `json:"containment"`
	RootCause                 string `json:"root_cause"`
	Countermeasure            string `json:"countermeasure"`
	ActionKind                string `json:"action_kind"`
	DeptOwner                 string `json:"dept_owner"`
	OwnerName                 string `json:"owner_name"`
	SupportNeeded             string `json:"support_needed"`
	Priority                  string `json:"priority"`
	DueDate                   string `json:"due_date"` // YYYY-MM-DD
	Status                    string `json:"status"`
	Blockage                  string `json:"blockage"`
	NextStep                  string `json:"next_step"`
	ProofLink                 string `json:"proof_link"`
	StandardUpdated           bool   `json:"standard_updated"`
	QualityValidationRequired bool   `json:"quality_validation_required"`
}

// CreateAction captures a new problem as an actionable action. The Lean field
// rules run first; a hard violation blocks the create, the advisory proof
// rule only produces a warning in the response.
func (c *ActionController) CreateAction(ctx *gin.Context) {
	var req createActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = model.StatusTodo
	}
	if req.Priority == "" {
		req.Priority = model.PriorityP3
	}

	// Same presentation-level gates as the capture form.
	if strings.TrimSpace(req.Problem) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Le problème est obligatoire."})
		return
	}
	if strings.TrimSpace(req.Countermeasure) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "L’action / contre-mesure est obligatoire."})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}
		dueDate = &parsed
	}

	var warning *service.RuleViolation
	if v := service.ValidateActionFields(req.Status, req.OwnerName, req.DeptOwner, dueDate, req.NextStep, req.Blockage, req.ProofLink); v != nil {
		if !v.Advisory {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": v.Message, "kind": v.Kind})
			return
		}
		warning = v
	}

	action := model.Action{
		CreatedBy:                 strings.TrimSpace(req.CreatedBy),
		Zone:                      strings.TrimSpace(req.Zone),
		Line:                      strings.TrimSpace(req.Line),
		Machine:                   strings.TrimSpace(req.Machine),
		Type:                      req.Type,
		M6:                        strings.TrimSpace(req.M6),
		Problem:                   strings.TrimSpace(req.Problem),
		Impact:                    strings.TrimSpace(req.Impact),
		Containment:               strings.TrimSpace(req.Containment),
		RootCause:                 strings.TrimSpace(req.RootCause),
		Countermeasure:            strings.TrimSpace(req.Countermeasure),
		ActionKind:                strings.TrimSpace(req.ActionKind),
		DeptOwner:                 req.DeptOwner,
		OwnerName:                 strings.TrimSpace(req.OwnerName),
		SupportNeeded:             strings.TrimSpace(req.SupportNeeded),
		Priority:                  req.Priority,
		DueDate:                   dueDate,
		Status:                    req.Status,
		Blockage:                  strings.TrimSpace(req.Blockage),
		NextStep:                  strings.TrimSpace(req.NextStep),
		ProofLink:                 strings.TrimSpace(req.ProofLink),
		StandardUpdated:           req.StandardUpdated,
		QualityValidationRequired: req.QualityValidationRequired,
	}

	if err := c.service.CreateAction(&action); err != nil {
		log.Printf("[CreateAction] Error creating action: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"message":   "Action created successfully",
		"action_id": action.ActionID,
	}
	if warning != nil {
		resp["warning"] = warning
	}
	ctx.JSON(http.StatusOK, resp)
}

// QueryActions lists actions through the shared filter contract, with the
// derived is_late/age_days fields.
func (c *ActionController) QueryActions(ctx *gin.Context) {
	filters := service.ActionFilters{
		DeptOwner: ctx.Query("dept_owner"),
		Type:      ctx.Query("type"),
		Status:    ctx.Query("status"),
		Priority:  ctx.Query("priority"),
		OnlyOpen:  ctx.Query("only_open") == "true",
		Search:    ctx.Query("search"),
	}

	views, err := c.service.QueryActions(filters)
	if err != nil {
		log.Printf("[QueryActions] Error querying actions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"actions": views,
		"total":   len(views),
	})
}

type bulkUpdateRow struct {
	ActionID                  string  `json:"action_id" binding:"required"`
	DeptOwner                 *string `json:"dept_owner"`
	OwnerName                 *string `json:"owner_name"`
	SupportNeeded             *string `json:"support_needed"`
	Priority                  *string `json:"priority"`
	DueDate                   *string `json:"due_date"` // YYYY-MM-DD
	Status                    *string `json:"status"`
	Blockage                  *string `json:"blockage"`
	NextStep                  *string `json:"next_step"`
	ProofLink                 *string `json:"proof_link"`
	StandardUpdated           *bool   `json:"standard_updated"`
	QualityValidationRequired *bool   `json:"quality_validation_required"`
}

// BulkUpdate applies a batch of sparse grid edits in one transaction.
func (c *ActionController) BulkUpdate(ctx *gin.Context) {
	var req struct {
		Rows []bulkUpdateRow `json:"rows" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	patches := make([]service.ActionPatch, 0, len(req.Rows))
	for _, row := range req.Rows {
		patch := service.ActionPatch{
			ActionID:                  row.ActionID,
			DeptOwner:                 row.DeptOwner,
			OwnerName:                 row.OwnerName,
			SupportNeeded:             row.SupportNeeded,
			Priority:                  row.Priority,
			Status:                    row.Status,
			Blockage:                  row.Blockage,
			NextStep:                  row.NextStep,
			ProofLink:                 row.ProofLink,
			StandardUpdated:           row.StandardUpdated,
			QualityValidationRequired: row.QualityValidationRequired,
		}
		if row.DueDate != nil {
			parsed, err := time.Parse("2006-01-02", *row.DueDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{
					"error":     "Invalid due_date, expected YYYY-MM-DD",
					"action_id": row.ActionID,
				})
				return
			}
			patch.DueDate = &parsed
		}
		patches = append(patches, patch)
	}

	if err := c.service.BulkUpdate(patches); err != nil {
		log.Printf("[BulkUpdate] Error applying bulk update: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bulk update applied",
		"rows":    len(patches),
	})
}

// NextActionID previews the identifier the next created action will get.
func (c *ActionController) NextActionID(ctx *gin.Context) {
	id, err := c.service.NextActionID()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"next_id": id})
}

// GetActionHistory returns the audit trail of one action.
func (c *ActionController) GetActionHistory(ctx *gin.Context) {
	actionID := ctx.Param("id")
	if actionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Action ID required"})
		return
	}

	entries, err := c.service.GetActionHistory(actionID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"action_id": actionID,
		"history":   entries,
	})
}

// UploadProof attaches a closure-proof file to an action.
func (c *ActionController) UploadProof(ctx *gin.Context) {
	actionID := ctx.Param("id")
	if actionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Action ID required"})
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
		return
	}
	defer file.Close()

	proofURL, err := c.service.UploadProof(actionID, file, header)
	if err != nil {
		if err == service.ErrProofStorageNotConfigured {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[UploadProof] Error uploading proof for %s: %v", actionID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Proof uploaded successfully",
		"proof_link": proofURL,
	})
}
