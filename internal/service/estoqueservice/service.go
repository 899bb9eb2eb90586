package estoqueservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	FindByList(ctx context.Context, listID string) ([]domain.StockEntry, error)
	Save(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error)
	UpdateQuantities(ctx context.Context, listID string, updates []domain.QuantityUpdate) error
}

// Service implementa a lógica de negócio da planilha de estoque.
type Service struct {
	repo   StockRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetEntries busca todas as entradas de uma lista, cada uma carregando a
// quantidade a pedir derivada ao vivo. A derivação acontece aqui, em toda
// leitura, nunca a partir de um valor armazenado.
func (s *Service) GetEntries(ctx context.Context, listID string) ([]domain.StockEntry, error) {
	if _, err := uuid.Parse(listID); err != nil {
		return nil, apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}

	entries, err := s.repo.FindByList(ctx, listID)
	if err != nil {
		s.logger.Error("Falha ao buscar planilha de estoque no repositório.", err)
		return nil, err // Erros do repositório já são NotFoundError ou DBError
	}

	for i := range entries {
		entries[i].QuantityToOrder = domain.DeriveOrderQuantity(entries[i].CurrentQuantity, entries[i].MinimumQuantity)
	}

	s.logger.Debug("Planilha de estoque carregada.", map[string]interface{}{"list_id": listID, "count": len(entries)})
	return entries, nil
}

// CreateEntry anexa um item a uma lista (ação de admin), criando a entrada de
// estoque com quantidade atual e mínima.
func (s *Service) CreateEntry(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error) {
	if _, err := uuid.Parse(entry.ListID); err != nil {
		return domain.StockEntry{}, apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}
	if strings.TrimSpace(entry.ItemName) == "" {
		return domain.StockEntry{}, apperror.NewValidationError("O nome do item não pode ser vazio.")
	}
	if entry.CurrentQuantity < 0 || entry.MinimumQuantity < 0 {
		return domain.StockEntry{}, apperror.NewValidationError("As quantidades atual e mínima não podem ser negativas.")
	}

	created, err := s.repo.Save(ctx, entry)
	if err != nil {
		s.logger.Error("Falha ao criar entrada de estoque no repositório.", err)
		return domain.StockEntry{}, err
	}

	s.logger.Info("Entrada de estoque criada.", map[string]interface{}{"entry_id": created.ID, "list_id": created.ListID, "item": created.ItemName})
	return created, nil
}

// UpdateQuantities aplica uma atualização parcial em lote às quantidades de
// uma lista. Toda a validação acontece antes de qualquer mutação: uma
// quantidade negativa rejeita o lote inteiro.
func (s *Service) UpdateQuantities(ctx context.Context, listID string, updates []domain.QuantityUpdate) error {
	if _, err := uuid.Parse(listID); err != nil {
		return apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}
	if len(updates) == 0 {
		return apperror.NewValidationError("Nenhuma atualização de quantidade informada.")
	}
	if err := ValidateUpdates(updates); err != nil {
		s.logger.Warn("Lote de quantidades rejeitado na validação.", map[string]interface{}{"list_id": listID, "error": err.Error()})
		return err
	}

	if err := s.repo.UpdateQuantities(ctx, listID, updates); err != nil {
		s.logger.Error("Falha ao atualizar quantidades no repositório.", err)
		return err
	}

	s.logger.Info("Quantidades da planilha atualizadas.", map[string]interface{}{"list_id": listID, "count": len(updates)})
	return nil
}

// ValidateUpdates valida um lote de atualização de quantidades.
// Compartilhado com o serviço de submissões, que aplica o mesmo lote antes de
// materializar os pedidos.
func ValidateUpdates(updates []domain.QuantityUpdate) error {
	for _, u := range updates {
		if _, err := uuid.Parse(u.EntryID); err != nil {
			return apperror.NewValidationError(fmt.Sprintf("O ID de entrada '%s' deve ser um UUID válido.", u.EntryID))
		}
		if u.CurrentQuantity < 0 {
			return apperror.NewValidationError(fmt.Sprintf("A quantidade da entrada %s não pode ser negativa.", u.EntryID))
		}
	}
	return nil
}
