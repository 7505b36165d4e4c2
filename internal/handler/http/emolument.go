package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/handler/http/response"
	emolumentsvc "github.com/zenithhr/payroll-backend-go/internal/service/emolument"
)

type EmolumentHandler interface {
	ListComponents(w http.ResponseWriter, r *http.Request)
	GetComponent(w http.ResponseWriter, r *http.Request)
	CreateComponent(w http.ResponseWriter, r *http.Request)
}

type emolumentHandlerImpl struct {
	emolumentService *emolumentsvc.Service
}

func NewEmolumentHandler(emolumentService *emolumentsvc.Service) EmolumentHandler {
	return &emolumentHandlerImpl{emolumentService: emolumentService}
}

func (h *emolumentHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		response.BadRequest(w, "client_id is required", nil)
		return
	}

	result, err := h.emolumentService.ListComponents(r.Context(), clientID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *emolumentHandlerImpl) GetComponent(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Component code is required", nil)
		return
	}

	var clientID *string
	if v := r.URL.Query().Get("client_id"); v != "" {
		clientID = &v
	}

	result, err := h.emolumentService.GetComponent(r.Context(), code, clientID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *emolumentHandlerImpl) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req emolument.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.emolumentService.CreateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Component created", result)
}
