package listaservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
)

// ListaRepository define o contrato que o Serviço de Listas espera da camada de Persistência.
type ListaRepository interface {
	Create(ctx context.Context, lista domain.Lista) (domain.Lista, error)
	FindByID(ctx context.Context, id string) (domain.Lista, error)
	FindAll(ctx context.Context, filter domain.ListaFilter) ([]domain.Lista, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
}

// Service implementa o ciclo de vida das Listas:
// ativa -> lixeira -> restaurada, ou lixeira -> removida permanentemente.
type Service struct {
	repo   ListaRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Listas.
func NewService(repo ListaRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateLista cria uma nova lista após validações de negócio.
func (s *Service) CreateLista(ctx context.Context, lista domain.Lista) (domain.Lista, error) {
	if err := s.validateListaName(lista.Name); err != nil {
		s.logger.Warn("Falha na validação do nome da lista.", map[string]interface{}{"name": lista.Name, "error": err.Error()})
		return domain.Lista{}, err
	}
	if lista.AreaID != "" {
		if _, err := uuid.Parse(lista.AreaID); err != nil {
			return domain.Lista{}, apperror.NewValidationError("O ID da área deve ser um UUID válido.")
		}
	}
	for _, userID := range lista.Collaborators {
		if _, err := uuid.Parse(userID); err != nil {
			return domain.Lista{}, apperror.NewValidationError("Todos os colaboradores devem ter um UUID válido.")
		}
	}

	created, err := s.repo.Create(ctx, lista)
	if err != nil {
		s.logger.Error("Falha ao criar lista no repositório.", err)
		return domain.Lista{}, apperror.NewInternalError("Falha interna ao criar lista.", err)
	}

	s.logger.Info("Lista criada com sucesso.", map[string]interface{}{"list_id": created.ID, "name": created.Name})
	return created, nil
}

// GetListaByID busca uma lista pelo ID.
func (s *Service) GetListaByID(ctx context.Context, id string) (domain.Lista, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Lista{}, apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// GetListas lista as listas ativas ou, com filter.Trashed, a lixeira.
func (s *Service) GetListas(ctx context.Context, filter domain.ListaFilter) ([]domain.Lista, error) {
	listas, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar listas no repositório.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar listas.", err)
	}
	return listas, nil
}

// SoftDelete move uma lista ativa para a lixeira (reversível). O histórico de
// Submissões e Pedidos da lista permanece válido.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("Falha ao mover lista para a lixeira.", err)
		return err // Erros do repositório já são NotFoundError ou DBError
	}
	return nil
}

// Restore devolve uma lista da lixeira ao estado ativo.
func (s *Service) Restore(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		s.logger.Error("Falha ao restaurar lista.", err)
		return err
	}
	return nil
}

// PermanentDelete remove de forma irreversível uma lista que está na lixeira.
func (s *Service) PermanentDelete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}

	if err := s.repo.PermanentDelete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover lista permanentemente.", err)
		return err
	}
	return nil
}

// PermanentDeleteBatch aplica a remoção permanente a cada ID de forma
// independente e reporta as falhas por ID em vez de abortar o lote.
func (s *Service) PermanentDeleteBatch(ctx context.Context, ids []string) domain.BatchResult {
	var result domain.BatchResult
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: "O ID da lista deve ser um UUID válido."})
			continue
		}
		if err := s.repo.PermanentDelete(ctx, id); err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	s.logger.Info("Remoção permanente em lote concluída.", map[string]interface{}{
		"sucessos": len(result.Succeeded),
		"falhas":   len(result.Failed),
	})
	return result
}

// validateListaName é uma função auxiliar para validar o nome da lista.
func (s *Service) validateListaName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidationError("O nome da lista não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome da lista deve ter entre 3 e 100 caracteres.")
	}
	return nil
}
