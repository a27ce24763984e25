// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/ports/inbound"
	apperrors "github.com/mealsmith/v2/pkg/errors"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	plannerService inbound.PlannerService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(plannerService inbound.PlannerService, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		plannerService: plannerService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// GenerateMealPlan handles POST /api/v1/meal-plans
func (h *APIHandlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GenerateMealPlanCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, apperrors.NewBadRequestError("request body is not valid JSON"))
		return
	}

	cmd.ApplyDefaults()

	if err := h.validate.Struct(cmd); err != nil {
		h.writeError(w, validationToAppError(err))
		return
	}

	plan, err := h.plannerService.GenerateMealPlan(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    plan,
		Message: "Meal plan generated successfully",
	})
}

// ListMealPlans handles GET /api/v1/meal-plans
func (h *APIHandlers) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	params := inbound.PaginationParams{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	}

	list, err := h.plannerService.ListMealPlans(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// GetMealPlan handles GET /api/v1/meal-plans/{id}
func (h *APIHandlers) GetMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.planID(w, r)
	if !ok {
		return
	}

	plan, err := h.plannerService.GetMealPlan(r.Context(), planID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: plan})
}

// ArchiveMealPlan handles POST /api/v1/meal-plans/{id}/archive
func (h *APIHandlers) ArchiveMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.planID(w, r)
	if !ok {
		return
	}

	if err := h.plannerService.ArchiveMealPlan(r.Context(), planID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Meal plan archived successfully",
	})
}

// DeleteMealPlan handles DELETE /api/v1/meal-plans/{id}
func (h *APIHandlers) DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.planID(w, r)
	if !ok {
		return
	}

	if err := h.plannerService.DeleteMealPlan(r.Context(), planID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Meal plan deleted successfully",
	})
}

// GetShoppingList handles GET /api/v1/meal-plans/{id}/shopping-list
func (h *APIHandlers) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.planID(w, r)
	if !ok {
		return
	}

	list, err := h.plannerService.GetShoppingList(r.Context(), planID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// ListDietProfiles handles GET /api/v1/diet-profiles
func (h *APIHandlers) ListDietProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.plannerService.ListDietProfiles(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: profiles})
}

// planID parses the {id} route parameter, writing a 400 on failure
func (h *APIHandlers) planID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	planID, err := uuid.Parse(raw)
	if err != nil {
		h.writeError(w, apperrors.NewBadRequestError("plan id must be a valid UUID"))
		return uuid.Nil, false
	}
	return planID, true
}

func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error("Unclassified error reached handler", zap.Error(err))
		appErr = apperrors.NewInternalError("an unexpected error occurred")
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("code", string(appErr.Code)), zap.Error(appErr))
	}

	h.writeJSON(w, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	})
}

// validationToAppError flattens validator errors into one message
func validationToAppError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fe.Field() + " failed " + fe.Tag() + " validation"
	}
	return apperrors.NewValidationError(strings.Join(parts, "; "))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
