package listarapidaservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
)

// ListaRapidaRepository define o contrato que o Serviço de Listas Rápidas
// espera da camada de Persistência.
type ListaRapidaRepository interface {
	Create(ctx context.Context, lista domain.ListaRapida) (domain.ListaRapida, error)
	FindByID(ctx context.Context, id string) (domain.ListaRapida, error)
	AddItem(ctx context.Context, listaID string, item domain.ItemListaRapida) (domain.ItemListaRapida, error)
	UpdateItem(ctx context.Context, listaID string, item domain.ItemListaRapida) error
	RemoveItem(ctx context.Context, listaID, itemID string) error
	Submeter(ctx context.Context, id string) (domain.ListaRapida, error)
	Decide(ctx context.Context, id string, to domain.ListaRapidaStatus, adminMessage string) (domain.ListaRapida, error)
	Reverter(ctx context.Context, id string) (domain.ListaRapida, error)
}

// Service implementa o fluxo leve de sugestão de itens (Lista Rápida):
// rascunho -> pendente -> aprovada/rejeitada, com revert. A aprovação nunca
// materializa Pedidos.
type Service struct {
	repo   ListaRapidaRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Listas Rápidas.
func NewService(repo ListaRapidaRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create cria uma nova lista rápida em rascunho para o colaborador.
func (s *Service) Create(ctx context.Context, createdBy string, items []domain.ItemListaRapida) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(createdBy); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	for _, item := range items {
		if err := validateItem(item); err != nil {
			return domain.ListaRapida{}, err
		}
	}

	created, err := s.repo.Create(ctx, domain.ListaRapida{CreatedBy: createdBy, Items: items})
	if err != nil {
		s.logger.Error("Falha ao criar lista rápida no repositório.", err)
		return domain.ListaRapida{}, err
	}
	return created, nil
}

// GetByID busca uma lista rápida com seus itens.
func (s *Service) GetByID(ctx context.Context, id string) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// AddItem adiciona um item sugerido; só é permitido em rascunho.
func (s *Service) AddItem(ctx context.Context, listaID string, item domain.ItemListaRapida) (domain.ItemListaRapida, error) {
	if _, err := uuid.Parse(listaID); err != nil {
		return domain.ItemListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}
	if err := validateItem(item); err != nil {
		return domain.ItemListaRapida{}, err
	}

	added, err := s.repo.AddItem(ctx, listaID, item)
	if err != nil {
		s.logger.Error("Falha ao adicionar item à lista rápida.", err)
		return domain.ItemListaRapida{}, err
	}
	return added, nil
}

// UpdateItem edita um item sugerido; só é permitido em rascunho.
func (s *Service) UpdateItem(ctx context.Context, listaID string, item domain.ItemListaRapida) error {
	if _, err := uuid.Parse(listaID); err != nil {
		return apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(item.ID); err != nil {
		return apperror.NewValidationError("O ID do item deve ser um UUID válido.")
	}
	if err := validateItem(item); err != nil {
		return err
	}

	if err := s.repo.UpdateItem(ctx, listaID, item); err != nil {
		s.logger.Error("Falha ao editar item da lista rápida.", err)
		return err
	}
	return nil
}

// RemoveItem remove um item sugerido; só é permitido em rascunho.
func (s *Service) RemoveItem(ctx context.Context, listaID, itemID string) error {
	if _, err := uuid.Parse(listaID); err != nil {
		return apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return apperror.NewValidationError("O ID do item deve ser um UUID válido.")
	}

	if err := s.repo.RemoveItem(ctx, listaID, itemID); err != nil {
		s.logger.Error("Falha ao remover item da lista rápida.", err)
		return err
	}
	return nil
}

// Submeter envia o rascunho para avaliação do admin. Falha se a lista não tem itens.
func (s *Service) Submeter(ctx context.Context, id string) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}

	lista, err := s.repo.Submeter(ctx, id)
	if err != nil {
		s.logger.Error("Falha ao submeter lista rápida.", err)
		return domain.ListaRapida{}, err
	}

	s.logger.Info("Lista rápida submetida para avaliação.", map[string]interface{}{"lista_rapida_id": id})
	return lista, nil
}

// Aprovar aprova uma lista rápida pendente. A mensagem do admin é opcional.
func (s *Service) Aprovar(ctx context.Context, id, adminMessage string) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}

	lista, err := s.repo.Decide(ctx, id, domain.ListaRapidaAprovada, adminMessage)
	if err != nil {
		s.logger.Error("Falha ao aprovar lista rápida.", err)
		return domain.ListaRapida{}, err
	}

	s.logger.Info("Lista rápida aprovada.", map[string]interface{}{"lista_rapida_id": id})
	return lista, nil
}

// Rejeitar rejeita uma lista rápida pendente. A mensagem do admin é
// OBRIGATÓRIA: o colaborador precisa saber o porquê da rejeição.
func (s *Service) Rejeitar(ctx context.Context, id, adminMessage string) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}
	if strings.TrimSpace(adminMessage) == "" {
		return domain.ListaRapida{}, apperror.NewValidationError("A rejeição exige uma mensagem explicando o motivo.")
	}

	lista, err := s.repo.Decide(ctx, id, domain.ListaRapidaRejeitada, adminMessage)
	if err != nil {
		s.logger.Error("Falha ao rejeitar lista rápida.", err)
		return domain.ListaRapida{}, err
	}

	s.logger.Info("Lista rápida rejeitada.", map[string]interface{}{"lista_rapida_id": id})
	return lista, nil
}

// Reverter desfaz uma decisão terminal, devolvendo a lista para pendente com
// o conjunto de itens inalterado.
func (s *Service) Reverter(ctx context.Context, id string) (domain.ListaRapida, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ListaRapida{}, apperror.NewValidationError("O ID da lista rápida deve ser um UUID válido.")
	}

	lista, err := s.repo.Reverter(ctx, id)
	if err != nil {
		s.logger.Error("Falha ao reverter lista rápida.", err)
		return domain.ListaRapida{}, err
	}
	return lista, nil
}

// validateItem valida os campos de um item sugerido.
func validateItem(item domain.ItemListaRapida) error {
	if strings.TrimSpace(item.ItemName) == "" {
		return apperror.NewValidationError("O nome do item não pode ser vazio.")
	}
	if !item.Priority.Valid() {
		return apperror.NewValidationError("A prioridade deve ser prevencao, precisa_comprar ou urgente.")
	}
	return nil
}
