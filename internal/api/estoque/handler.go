package estoque

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	GetEntries(ctx context.Context, listID string) ([]domain.StockEntry, error)
	CreateEntry(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error)
	UpdateQuantities(ctx context.Context, listID string, updates []domain.QuantityUpdate) error
}

// Handler agrupa todos os métodos de Handler da planilha de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
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

// GetEntriesHandler lida com a requisição GET /v1/lists/{id}/entries.
// A quantidade a pedir de cada entrada é derivada no momento da leitura.
// @Summary Lista as entradas de estoque de uma lista
// @Tags entries
// @Produce json
// @Param id path string true "ID da Lista"
// @Success 200 {array} domain.StockEntry "Entradas da planilha"
// @Failure 404 {object} domain.ErrorResponse "Lista não encontrada"
// @Router /lists/{id}/entries [get]
func (h *Handler) GetEntriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := r.PathValue("id")

	entries, err := h.Service.GetEntries(ctx, listID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, entries, nil, http.StatusOK)
}

// CreateEntryHandler lida com a requisição POST /v1/lists/{id}/entries.
// @Summary Cria uma entrada de estoque
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "ID da Lista"
// @Param entry body domain.StockEntry true "Dados da entrada"
// @Success 201 {object} domain.StockEntry "Entrada criada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /lists/{id}/entries [post]
func (h *Handler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var entry domain.StockEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}
	entry.ListID = r.PathValue("id")

	createdEntry, err := h.Service.CreateEntry(ctx, entry)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, createdEntry, nil, http.StatusCreated)
}

// UpdateQuantitiesHandler lida com a requisição PUT /v1/lists/{id}/entries/quantities.
// Atualiza quantidades em lote sem submeter. O lote é validado por completo
// antes de qualquer escrita: uma entrada inválida rejeita o lote inteiro.
// @Summary Atualiza quantidades de estoque em lote
// @Tags entries
// @Accept json
// @Param id path string true "ID da Lista"
// @Param updates body object true "Atualizações ({\"updates\": [...]})"
// @Success 204 "Nenhum conteúdo"
// @Failure 400 {object} domain.ErrorResponse "Lote inválido"
// @Failure 409 {object} domain.ErrorResponse "Conflito de versão (escrita concorrente)"
// @Security ApiKeyAuth
// @Router /lists/{id}/entries/quantities [put]
func (h *Handler) UpdateQuantitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := r.PathValue("id")

	var updateRequest struct {
		Updates []domain.QuantityUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateQuantities(ctx, listID, updateRequest.Updates); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
