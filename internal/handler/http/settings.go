package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/handler/http/response"
	settingsvc "github.com/zenithhr/payroll-backend-go/internal/service/settings"
	"github.com/zenithhr/payroll-backend-go/internal/service/tax"
)

type SettingsHandler interface {
	ListSettings(w http.ResponseWriter, r *http.Request)
	GetSetting(w http.ResponseWriter, r *http.Request)
	GetSettingHistory(w http.ResponseWriter, r *http.Request)
	UpdateSetting(w http.ResponseWriter, r *http.Request)
	ListTaxBrackets(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService *settingsvc.Service
	taxResolver     *tax.Resolver
}

func NewSettingsHandler(settingsService *settingsvc.Service, taxResolver *tax.Resolver) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService, taxResolver: taxResolver}
}

// ========== SETTINGS ==========

func (h *settingsHandlerImpl) ListSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.ListSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Setting key is required", nil)
		return
	}

	result, err := h.settingsService.GetSetting(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) GetSettingHistory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Setting key is required", nil)
		return
	}

	result, err := h.settingsService.GetSettingHistory(r.Context(), key)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Setting key is required", nil)
		return
	}

	var req settings.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.SettingKey = key

	result, err := h.settingsService.UpdateSetting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting updated", result)
}

// ========== TAX BRACKETS ==========

func (h *settingsHandlerImpl) ListTaxBrackets(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "Invalid as_of date, expected YYYY-MM-DD", nil)
			return
		}
		asOf = parsed
	}

	brackets, err := h.taxResolver.ListBrackets(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]settings.TaxBracketResponse, 0, len(brackets))
	for _, b := range brackets {
		resp := settings.TaxBracketResponse{
			ID:            b.ID,
			TierNumber:    b.TierNumber,
			IncomeFrom:    b.IncomeFrom.String(),
			TaxRate:       b.TaxRate.String(),
			EffectiveFrom: b.EffectiveFrom,
			EffectiveTo:   b.EffectiveTo,
		}
		if b.IncomeTo != nil {
			upper := b.IncomeTo.String()
			resp.IncomeTo = &upper
		}
		result = append(result, resp)
	}

	response.Success(w, result)
}
