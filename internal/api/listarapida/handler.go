package listarapida

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/pkg/middleware"
)

// ListaRapidaService define o contrato que o Handler espera da camada de Serviço.
type ListaRapidaService interface {
	Create(ctx context.Context, createdBy string, items []domain.ItemListaRapida) (domain.ListaRapida, error)
	GetByID(ctx context.Context, id string) (domain.ListaRapida, error)
	AddItem(ctx context.Context, listaID string, item domain.ItemListaRapida) (domain.ItemListaRapida, error)
	UpdateItem(ctx context.Context, listaID string, item domain.ItemListaRapida) error
	RemoveItem(ctx context.Context, listaID, itemID string) error
	Submeter(ctx context.Context, id string) (domain.ListaRapida, error)
	Aprovar(ctx context.Context, id, adminMessage string) (domain.ListaRapida, error)
	Rejeitar(ctx context.Context, id, adminMessage string) (domain.ListaRapida, error)
	Reverter(ctx context.Context, id string) (domain.ListaRapida, error)
}

// DecisionRequest é o payload das decisões do admin sobre uma lista rápida.
type DecisionRequest struct {
	AdminMessage string `json:"admin_message"`
}

// Handler agrupa todos os métodos de Handler de listas rápidas.
type Handler struct {
	Service ListaRapidaService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ListaRapidaService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// CreateHandler lida com a requisição POST /v1/quick-lists.
// A lista nasce em rascunho, pertencente ao usuário autenticado.
// @Summary Cria uma lista rápida em rascunho
// @Tags quick-lists
// @Accept json
// @Produce json
// @Success 201 {object} domain.ListaRapida "Lista rápida criada"
// @Security ApiKeyAuth
// @Router /quick-lists [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Usuário não autenticado."), http.StatusOK)
		return
	}

	var createRequest struct {
		Items []domain.ItemListaRapida `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	lista, err := h.Service.Create(ctx, claims.UserID, createRequest.Items)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusCreated)
}

// GetByIDHandler lida com a requisição GET /v1/quick-lists/{id}.
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lista, err := h.Service.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}

// AddItemHandler lida com a requisição POST /v1/quick-lists/{id}/items.
// Só é permitido enquanto a lista está em rascunho.
func (h *Handler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var item domain.ItemListaRapida
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	addedItem, err := h.Service.AddItem(ctx, r.PathValue("id"), item)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, addedItem, nil, http.StatusCreated)
}

// UpdateItemHandler lida com a requisição PUT /v1/quick-lists/{id}/items/{itemID}.
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var item domain.ItemListaRapida
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	item.ID = r.PathValue("itemID")

	if err := h.Service.UpdateItem(ctx, r.PathValue("id"), item); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// RemoveItemHandler lida com a requisição DELETE /v1/quick-lists/{id}/items/{itemID}.
func (h *Handler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Service.RemoveItem(ctx, r.PathValue("id"), r.PathValue("itemID")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// SubmeterHandler lida com a requisição POST /v1/quick-lists/{id}/submit.
// @Summary Submete uma lista rápida para avaliação
// @Tags quick-lists
// @Produce json
// @Param id path string true "ID da Lista Rápida"
// @Success 200 {object} domain.ListaRapida "Lista pendente de avaliação"
// @Failure 409 {object} domain.ErrorResponse "Lista não está em rascunho"
// @Security ApiKeyAuth
// @Router /quick-lists/{id}/submit [post]
func (h *Handler) SubmeterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lista, err := h.Service.Submeter(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}

// AprovarHandler lida com a requisição POST /v1/quick-lists/{id}/approve.
// A mensagem do admin é opcional na aprovação.
func (h *Handler) AprovarHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var decision DecisionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
			return
		}
	}

	lista, err := h.Service.Aprovar(ctx, r.PathValue("id"), decision.AdminMessage)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}

// RejeitarHandler lida com a requisição POST /v1/quick-lists/{id}/reject.
// A mensagem do admin é obrigatória na rejeição.
func (h *Handler) RejeitarHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var decision DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	lista, err := h.Service.Rejeitar(ctx, r.PathValue("id"), decision.AdminMessage)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}

// ReverterHandler lida com a requisição POST /v1/quick-lists/{id}/revert.
// Devolve uma lista decidida para pendente, limpando a mensagem do admin.
func (h *Handler) ReverterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lista, err := h.Service.Reverter(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}
