package submissao

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

// SubmissaoService define o contrato que o Handler espera da camada de Serviço.
type SubmissaoService interface {
	Submit(ctx context.Context, listID, userID string, updates []domain.QuantityUpdate) (domain.Submissao, error)
	GetSubmissao(ctx context.Context, id string) (domain.Submissao, error)
	GetPedido(ctx context.Context, id string) (domain.Pedido, error)
	ApproveSubmissao(ctx context.Context, submissaoID string) (domain.Submissao, error)
	RejectSubmissao(ctx context.Context, submissaoID string) (domain.Submissao, error)
	Revert(ctx context.Context, submissaoID string) (domain.Submissao, error)
	EditAndResubmit(ctx context.Context, submissaoID string, updates []domain.QuantityUpdate) (domain.Submissao, error)
	ApproveOrder(ctx context.Context, pedidoID string) (domain.Pedido, error)
	RejectOrder(ctx context.Context, pedidoID string) (domain.Pedido, error)
	ApproveBatch(ctx context.Context, pedidoIDs []string) domain.BatchResult
	RejectBatch(ctx context.Context, pedidoIDs []string) domain.BatchResult
}

// QuantityUpdatesRequest é o payload de submissão e ressubmissão: o snapshot
// de quantidades preenchido pelo colaborador.
type QuantityUpdatesRequest struct {
	Updates []domain.QuantityUpdate `json:"updates"`
}

// BatchRequest é o payload das operações de decisão em lote.
type BatchRequest struct {
	IDs []string `json:"ids"`
}

// Handler agrupa todos os métodos de Handler do fluxo de submissão e aprovação.
type Handler struct {
	Service SubmissaoService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SubmissaoService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		// Sucesso
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

	// TRATAMENTO DE ERROS
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

// SubmitHandler lida com a requisição POST /v1/lists/{id}/submit.
// Salva o snapshot de quantidades e materializa os Pedidos das entradas com
// déficit, tudo na mesma transação. O autor é extraído do JWT.
// @Summary Submete a planilha de estoque de uma lista
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "ID da Lista"
// @Param updates body QuantityUpdatesRequest true "Snapshot de quantidades"
// @Success 201 {object} domain.Submissao "Submissão criada com seus pedidos"
// @Failure 422 {object} domain.ErrorResponse "Nenhuma entrada com déficit"
// @Failure 409 {object} domain.ErrorResponse "Conflito de versão"
// @Security ApiKeyAuth
// @Router /lists/{id}/submit [post]
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := r.PathValue("id")

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Usuário não autenticado."), http.StatusOK)
		return
	}

	var submitRequest QuantityUpdatesRequest
	if err := json.NewDecoder(r.Body).Decode(&submitRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	submissao, err := h.Service.Submit(ctx, listID, claims.UserID, submitRequest.Updates)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusCreated)
}

// GetSubmissaoHandler lida com a requisição GET /v1/submissions/{id}.
// @Summary Obtém uma submissão com seus pedidos
// @Tags submissions
// @Produce json
// @Param id path string true "ID da Submissão"
// @Success 200 {object} domain.Submissao "Submissão encontrada"
// @Failure 404 {object} domain.ErrorResponse "Submissão não encontrada"
// @Router /submissions/{id} [get]
func (h *Handler) GetSubmissaoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissao, err := h.Service.GetSubmissao(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusOK)
}

// ApproveSubmissaoHandler lida com a requisição POST /v1/submissions/{id}/approve.
// Aprova todos os pedidos ainda pendentes da submissão.
// @Summary Aprova uma submissão inteira
// @Tags submissions
// @Produce json
// @Param id path string true "ID da Submissão"
// @Success 200 {object} domain.Submissao "Submissão com status agregado recalculado"
// @Failure 404 {object} domain.ErrorResponse "Submissão não encontrada"
// @Security ApiKeyAuth
// @Router /submissions/{id}/approve [post]
func (h *Handler) ApproveSubmissaoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissao, err := h.Service.ApproveSubmissao(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusOK)
}

// RejectSubmissaoHandler lida com a requisição POST /v1/submissions/{id}/reject.
// Rejeita todos os pedidos ainda pendentes da submissão.
// @Summary Rejeita uma submissão inteira
// @Tags submissions
// @Produce json
// @Param id path string true "ID da Submissão"
// @Success 200 {object} domain.Submissao "Submissão com status agregado recalculado"
// @Failure 404 {object} domain.ErrorResponse "Submissão não encontrada"
// @Security ApiKeyAuth
// @Router /submissions/{id}/reject [post]
func (h *Handler) RejectSubmissaoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissao, err := h.Service.RejectSubmissao(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusOK)
}

// RevertSubmissaoHandler lida com a requisição POST /v1/submissions/{id}/revert.
// Desfaz as decisões: todos os pedidos e a submissão voltam a PENDENTE.
// @Summary Reverte as decisões de uma submissão
// @Tags submissions
// @Produce json
// @Param id path string true "ID da Submissão"
// @Success 200 {object} domain.Submissao "Submissão de volta a pendente"
// @Failure 409 {object} domain.ErrorResponse "Submissão não tem decisão para reverter"
// @Security ApiKeyAuth
// @Router /submissions/{id}/revert [post]
func (h *Handler) RevertSubmissaoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissao, err := h.Service.Revert(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusOK)
}

// ResubmitHandler lida com a requisição POST /v1/submissions/{id}/resubmit.
// Reconcilia os pedidos da submissão com o novo snapshot de quantidades:
// entradas que ganharam déficit viram pedidos, entradas que perderam déficit
// têm o pedido removido, e tudo volta a PENDENTE.
// @Summary Edita e ressubmete uma submissão pendente
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "ID da Submissão"
// @Param updates body QuantityUpdatesRequest true "Novo snapshot de quantidades"
// @Success 200 {object} domain.Submissao "Submissão reconciliada"
// @Failure 409 {object} domain.ErrorResponse "Submissão não está pendente"
// @Failure 422 {object} domain.ErrorResponse "Reconciliação removeria todos os pedidos"
// @Security ApiKeyAuth
// @Router /submissions/{id}/resubmit [post]
func (h *Handler) ResubmitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resubmitRequest QuantityUpdatesRequest
	if err := json.NewDecoder(r.Body).Decode(&resubmitRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	submissao, err := h.Service.EditAndResubmit(ctx, r.PathValue("id"), resubmitRequest.Updates)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, submissao, nil, http.StatusOK)
}

// GetPedidoHandler lida com a requisição GET /v1/orders/{id}.
// @Summary Obtém um pedido individual
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Pedido "Pedido encontrado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /orders/{id} [get]
func (h *Handler) GetPedidoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pedido, err := h.Service.GetPedido(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, pedido, nil, http.StatusOK)
}

// ApproveOrderHandler lida com a requisição POST /v1/orders/{id}/approve.
// @Summary Aprova um pedido individual
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Pedido "Pedido aprovado"
// @Failure 409 {object} domain.ErrorResponse "Pedido já decidido"
// @Security ApiKeyAuth
// @Router /orders/{id}/approve [post]
func (h *Handler) ApproveOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pedido, err := h.Service.ApproveOrder(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, pedido, nil, http.StatusOK)
}

// RejectOrderHandler lida com a requisição POST /v1/orders/{id}/reject.
// @Summary Rejeita um pedido individual
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Pedido "Pedido rejeitado"
// @Failure 409 {object} domain.ErrorResponse "Pedido já decidido"
// @Security ApiKeyAuth
// @Router /orders/{id}/reject [post]
func (h *Handler) RejectOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pedido, err := h.Service.RejectOrder(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, pedido, nil, http.StatusOK)
}

// ApproveBatchHandler lida com a requisição POST /v1/orders/approve-batch.
// Cada pedido do lote é decidido de forma independente.
// @Summary Aprova vários pedidos
// @Tags orders
// @Accept json
// @Produce json
// @Param ids body BatchRequest true "IDs dos pedidos"
// @Success 200 {object} domain.BatchResult "Resultado por pedido"
// @Security ApiKeyAuth
// @Router /orders/approve-batch [post]
func (h *Handler) ApproveBatchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var batchRequest BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	result := h.Service.ApproveBatch(ctx, batchRequest.IDs)
	h.handleServiceResponse(w, r, result, nil, http.StatusOK)
}

// RejectBatchHandler lida com a requisição POST /v1/orders/reject-batch.
// Cada pedido do lote é decidido de forma independente.
// @Summary Rejeita vários pedidos
// @Tags orders
// @Accept json
// @Produce json
// @Param ids body BatchRequest true "IDs dos pedidos"
// @Success 200 {object} domain.BatchResult "Resultado por pedido"
// @Security ApiKeyAuth
// @Router /orders/reject-batch [post]
func (h *Handler) RejectBatchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var batchRequest BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	result := h.Service.RejectBatch(ctx, batchRequest.IDs)
	h.handleServiceResponse(w, r, result, nil, http.StatusOK)
}
