package lista

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
)

// ListaService define o contrato que o Handler espera da camada de Serviço.
type ListaService interface {
	CreateLista(ctx context.Context, lista domain.Lista) (domain.Lista, error)
	GetListaByID(ctx context.Context, id string) (domain.Lista, error)
	GetListas(ctx context.Context, filter domain.ListaFilter) ([]domain.Lista, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	PermanentDeleteBatch(ctx context.Context, ids []string) domain.BatchResult
}

// Handler agrupa todos os métodos de Handler de listas.
type Handler struct {
	Service ListaService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ListaService, log logger.Logger) *Handler {
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

// CreateListaHandler lida com a requisição POST /v1/lists.
// @Summary Cria uma nova lista
// @Description Cria uma nova lista de estoque, opcionalmente vinculada a uma área e com colaboradores designados.
// @Tags lists
// @Accept json
// @Produce json
// @Param lista body domain.Lista true "Dados da lista para criação"
// @Success 201 {object} domain.Lista "Lista criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /lists [post]
func (h *Handler) CreateListaHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var lista domain.Lista
	if err := json.NewDecoder(r.Body).Decode(&lista); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	createdLista, err := h.Service.CreateLista(ctx, lista)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, createdLista, nil, http.StatusCreated)
}

// GetListasHandler lida com a requisição GET /v1/lists.
// @Summary Lista as listas de estoque
// @Description Retorna as listas ativas. Com ?trashed=true retorna apenas a lixeira. Com ?area_id filtra por área.
// @Tags lists
// @Produce json
// @Param trashed query bool false "Listar a lixeira em vez das listas ativas"
// @Param area_id query string false "Filtrar por área"
// @Success 200 {array} domain.Lista "Listas encontradas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /lists [get]
func (h *Handler) GetListasHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.ListaFilter{
		Trashed: r.URL.Query().Get("trashed") == "true",
		AreaID:  r.URL.Query().Get("area_id"),
	}

	listas, err := h.Service.GetListas(ctx, filter)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, listas, nil, http.StatusOK)
}

// GetListaByIDHandler lida com a requisição GET /v1/lists/{id}.
// @Summary Obtém uma lista por ID
// @Description Busca uma lista específica pelo seu ID, incluindo a lixeira.
// @Tags lists
// @Produce json
// @Param id path string true "ID da Lista"
// @Success 200 {object} domain.Lista "Lista encontrada"
// @Failure 404 {object} domain.ErrorResponse "Lista não encontrada"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /lists/{id} [get]
func (h *Handler) GetListaByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	lista, err := h.Service.GetListaByID(ctx, id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, lista, nil, http.StatusOK)
}

// SoftDeleteListaHandler lida com a requisição DELETE /v1/lists/{id}.
// @Summary Move uma lista para a lixeira
// @Description Soft delete: a lista sai das listagens padrão mas pode ser restaurada. Submissões e pedidos não são afetados.
// @Tags lists
// @Param id path string true "ID da Lista"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Lista ativa não encontrada"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /lists/{id} [delete]
func (h *Handler) SoftDeleteListaHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Service.SoftDelete(ctx, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// RestoreListaHandler lida com a requisição POST /v1/lists/{id}/restore.
// @Summary Restaura uma lista da lixeira
// @Tags lists
// @Param id path string true "ID da Lista"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Lista não está na lixeira"
// @Security ApiKeyAuth
// @Router /lists/{id}/restore [post]
func (h *Handler) RestoreListaHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Service.Restore(ctx, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// PermanentDeleteListaHandler lida com a requisição DELETE /v1/lists/{id}/permanent.
// @Summary Remove permanentemente uma lista da lixeira
// @Description Irreversível. Remove a lista e suas entradas de estoque; o histórico de submissões e pedidos é preservado.
// @Tags lists
// @Param id path string true "ID da Lista"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Lista não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Lista ainda está ativa"
// @Security ApiKeyAuth
// @Router /lists/{id}/permanent [delete]
func (h *Handler) PermanentDeleteListaHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.Service.PermanentDelete(ctx, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// PermanentDeleteBatchHandler lida com a requisição POST /v1/lists/permanent-delete-batch.
// Cada ID do lote é processado de forma independente: o resultado informa os
// sucessos e as falhas individualmente.
// @Summary Remove permanentemente várias listas da lixeira
// @Tags lists
// @Accept json
// @Produce json
// @Param ids body object true "IDs das listas ({\"ids\": [...]})"
// @Success 200 {object} domain.BatchResult "Resultado por ID"
// @Security ApiKeyAuth
// @Router /lists/permanent-delete-batch [post]
func (h *Handler) PermanentDeleteBatchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var batchRequest struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	result := h.Service.PermanentDeleteBatch(ctx, batchRequest.IDs)
	h.handleServiceResponse(w, r, result, nil, http.StatusOK)
}
