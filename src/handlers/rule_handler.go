// backend/src/handlers/rule_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/security/validation"
	"github.com/misehero/HeroWizzard-version2/src/services"
	"github.com/misehero/HeroWizzard-version2/src/utils"
)

type RuleHandler struct {
	ruleService services.RuleService
}

func NewRuleHandler(ruleService services.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

type ruleRequest struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	MatchType     string                 `json:"match_type"`
	MatchMode     string                 `json:"match_mode"`
	MatchValue    string                 `json:"match_value"`
	CaseSensitive bool                   `json:"case_sensitive"`
	Priority      int                    `json:"priority"`
	Assign        models.RuleAssignments `json:"assign"`
	IsActive      *bool                  `json:"is_active"`
}

func (req *ruleRequest) toRule() *models.CategoryRule {
	rule := &models.CategoryRule{
		Name:          validation.SanitizeText(req.Name),
		Description:   validation.SanitizeText(req.Description),
		MatchType:     models.MatchType(req.MatchType),
		MatchMode:     models.MatchMode(req.MatchMode),
		MatchValue:    req.MatchValue,
		CaseSensitive: req.CaseSensitive,
		Priority:      req.Priority,
		Assign:        req.Assign,
		IsActive:      true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	return rule
}

func (h *RuleHandler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := model.ListAllRules(database.DB)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list rules", "error", err)
		utils.SendJSONError(w, "Failed to list rules", http.StatusInternalServerError)
		return
	}
	if rules == nil {
		rules = []models.CategoryRule{}
	}
	utils.SendJSONResponse(w, rules, http.StatusOK)
}

func (h *RuleHandler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rule := req.toRule()
	if err := validation.ValidateRule(rule); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule.ID = uuid.New()
	rule.CreatedBy = actorName(r.Context())
	if err := model.InsertRule(database.DB, rule); err != nil {
		logger.FromContext(r.Context()).Error("Failed to create rule", "name", rule.Name, "error", err)
		utils.SendJSONError(w, "Failed to create rule", http.StatusInternalServerError)
		return
	}

	h.ruleService.InvalidateRuleCache()
	utils.SendJSONResponse(w, rule, http.StatusCreated)
}

func (h *RuleHandler) HandleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ruleID"))
	if err != nil {
		utils.SendJSONError(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	existing, err := model.GetRuleByID(database.DB, id)
	if err != nil {
		if errors.Is(err, model.ErrRuleNotFound) {
			utils.SendJSONError(w, "Rule not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load rule", http.StatusInternalServerError)
		return
	}

	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rule := req.toRule()
	if err := validation.ValidateRule(rule); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	rule.CreatedBy = existing.CreatedBy
	if err := model.UpdateRule(database.DB, rule); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update rule", "ruleID", id, "error", err)
		utils.SendJSONError(w, "Failed to update rule", http.StatusInternalServerError)
		return
	}

	h.ruleService.InvalidateRuleCache()
	utils.SendJSONResponse(w, rule, http.StatusOK)
}

func (h *RuleHandler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ruleID"))
	if err != nil {
		utils.SendJSONError(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}
	if err := model.DeleteRule(database.DB, id); err != nil {
		if errors.Is(err, model.ErrRuleNotFound) {
			utils.SendJSONError(w, "Rule not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete rule", "ruleID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete rule", http.StatusInternalServerError)
		return
	}

	h.ruleService.InvalidateRuleCache()
	w.WriteHeader(http.StatusNoContent)
}

// HandleApplyRules re-runs the active rule set. With ?all=true every stored
// transaction is re-evaluated; by default only rows still missing
// categorization are touched.
func (h *RuleHandler) HandleApplyRules(w http.ResponseWriter, r *http.Request) {
	applyAll := r.URL.Query().Get("all") == "true"

	changed, err := h.ruleService.ApplyToUncategorized(applyAll, actorName(r.Context()))
	if err != nil {
		logger.FromContext(r.Context()).Error("Bulk rule application failed", "applyAll", applyAll, "error", err)
		utils.SendJSONError(w, "Rule application failed", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, map[string]int{"changed": changed}, http.StatusOK)
}

// HandleTestRule evaluates a rule draft against recent transactions without
// saving anything.
func (h *RuleHandler) HandleTestRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rule := req.toRule()
	if err := validation.ValidateRule(rule); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matched, err := h.ruleService.TestRule(*rule, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Rule test failed", "error", err)
		utils.SendJSONError(w, "Rule test failed", http.StatusInternalServerError)
		return
	}
	if matched == nil {
		matched = []models.Transaction{}
	}
	utils.SendJSONResponse(w, map[string]interface{}{
		"matched_count": len(matched),
		"matched":       matched,
	}, http.StatusOK)
}
