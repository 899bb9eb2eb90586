package submissaoservice

import (
	"context"

	"github.com/google/uuid"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/service/estoqueservice"
)

// SubmissaoRepository define o contrato que o Serviço de Submissões espera da
// camada de Persistência. Cada método multi-linha roda em uma única transação.
type SubmissaoRepository interface {
	Create(ctx context.Context, listID, userID string, updates []domain.QuantityUpdate) (domain.Submissao, error)
	FindByID(ctx context.Context, id string) (domain.Submissao, error)
	FindPedidoByID(ctx context.Context, id string) (domain.Pedido, error)
	TransitionPedido(ctx context.Context, pedidoID string, to domain.PedidoStatus) (domain.Pedido, error)
	TransitionPendentes(ctx context.Context, submissaoID string, to domain.PedidoStatus) (domain.Submissao, error)
	Revert(ctx context.Context, submissaoID string) (domain.Submissao, error)
	Reconcile(ctx context.Context, submissaoID string, updates []domain.QuantityUpdate) (domain.Submissao, error)
}

// Service é a máquina de estados de aprovação compartilhada: as telas de admin
// e de colaborador consomem estas operações em vez de reimplementar a regra de
// roll-up em cada ponto de chamada.
type Service struct {
	repo   SubmissaoRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Submissões.
func NewService(repo SubmissaoRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Submit aplica as quantidades informadas e cria uma Submissão PENDENTE com um
// Pedido por entrada em déficit. Devolve EmptySubmissionError quando nenhuma
// entrada fica abaixo do mínimo, para mensagem amigável na UI.
func (s *Service) Submit(ctx context.Context, listID, userID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	if _, err := uuid.Parse(listID); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID da lista deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	if err := estoqueservice.ValidateUpdates(updates); err != nil {
		s.logger.Warn("Submissão rejeitada na validação das quantidades.", map[string]interface{}{"list_id": listID, "error": err.Error()})
		return domain.Submissao{}, err
	}

	submissao, err := s.repo.Create(ctx, listID, userID, updates)
	if err != nil {
		s.logger.Error("Falha ao criar submissão no repositório.", err)
		return domain.Submissao{}, err
	}

	s.logger.Info("Submissão criada com sucesso.", map[string]interface{}{
		"submissao_id": submissao.ID,
		"list_id":      listID,
		"submitted_by": userID,
		"pedidos":      len(submissao.Pedidos),
	})
	return submissao, nil
}

// GetSubmissao busca uma Submissão com seus Pedidos.
func (s *Service) GetSubmissao(ctx context.Context, id string) (domain.Submissao, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID da submissão deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// GetPedido busca um pedido individual pelo ID.
func (s *Service) GetPedido(ctx context.Context, id string) (domain.Pedido, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Pedido{}, apperror.NewValidationError("O ID do pedido deve ser um UUID válido.")
	}
	return s.repo.FindPedidoByID(ctx, id)
}

// ApproveOrder aprova um único Pedido PENDENTE.
func (s *Service) ApproveOrder(ctx context.Context, pedidoID string) (domain.Pedido, error) {
	return s.transitionOrder(ctx, pedidoID, domain.PedidoAprovado)
}

// RejectOrder rejeita um único Pedido PENDENTE.
func (s *Service) RejectOrder(ctx context.Context, pedidoID string) (domain.Pedido, error) {
	return s.transitionOrder(ctx, pedidoID, domain.PedidoRejeitado)
}

func (s *Service) transitionOrder(ctx context.Context, pedidoID string, to domain.PedidoStatus) (domain.Pedido, error) {
	if _, err := uuid.Parse(pedidoID); err != nil {
		return domain.Pedido{}, apperror.NewValidationError("O ID do pedido deve ser um UUID válido.")
	}

	pedido, err := s.repo.TransitionPedido(ctx, pedidoID, to)
	if err != nil {
		s.logger.Error("Falha na transição de pedido.", err)
		return domain.Pedido{}, err
	}

	s.logger.Info("Pedido transicionado.", map[string]interface{}{"pedido_id": pedidoID, "status": to})
	return pedido, nil
}

// ApproveSubmissao aprova todos os Pedidos PENDENTE da Submissão em uma única
// operação atômica. Pedidos já terminais ficam como estão (reinvocação segura).
func (s *Service) ApproveSubmissao(ctx context.Context, submissaoID string) (domain.Submissao, error) {
	return s.transitionSubmissao(ctx, submissaoID, domain.PedidoAprovado)
}

// RejectSubmissao rejeita todos os Pedidos PENDENTE da Submissão.
func (s *Service) RejectSubmissao(ctx context.Context, submissaoID string) (domain.Submissao, error) {
	return s.transitionSubmissao(ctx, submissaoID, domain.PedidoRejeitado)
}

func (s *Service) transitionSubmissao(ctx context.Context, submissaoID string, to domain.PedidoStatus) (domain.Submissao, error) {
	if _, err := uuid.Parse(submissaoID); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID da submissão deve ser um UUID válido.")
	}

	submissao, err := s.repo.TransitionPendentes(ctx, submissaoID, to)
	if err != nil {
		s.logger.Error("Falha na transição da submissão.", err)
		return domain.Submissao{}, err
	}

	s.logger.Info("Submissão transicionada.", map[string]interface{}{"submissao_id": submissaoID, "status": submissao.Status})
	return submissao, nil
}

// ApproveBatch aprova um conjunto arbitrário de Pedidos, possivelmente de
// submissões diferentes. Cada pedido é validado de forma independente: um
// membro inválido não aborta os demais (semântica de sucesso parcial).
func (s *Service) ApproveBatch(ctx context.Context, pedidoIDs []string) domain.BatchResult {
	return s.transitionBatch(ctx, pedidoIDs, domain.PedidoAprovado)
}

// RejectBatch rejeita um conjunto arbitrário de Pedidos, com a mesma semântica
// de sucesso parcial do ApproveBatch.
func (s *Service) RejectBatch(ctx context.Context, pedidoIDs []string) domain.BatchResult {
	return s.transitionBatch(ctx, pedidoIDs, domain.PedidoRejeitado)
}

func (s *Service) transitionBatch(ctx context.Context, pedidoIDs []string, to domain.PedidoStatus) domain.BatchResult {
	var result domain.BatchResult
	for _, id := range pedidoIDs {
		if _, err := uuid.Parse(id); err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: "O ID do pedido deve ser um UUID válido."})
			continue
		}
		if _, err := s.repo.TransitionPedido(ctx, id, to); err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	s.logger.Info("Operação em lote de pedidos concluída.", map[string]interface{}{
		"status":    to,
		"sucessos":  len(result.Succeeded),
		"falhas":    len(result.Failed),
		"total_ids": len(pedidoIDs),
	})
	return result
}

// Revert desfaz a decisão de uma Submissão terminal: todos os Pedidos,
// aprovados e rejeitados, voltam para PENDENTE. Não existe rastreamento de
// atendimento neste sistema; o revert é puramente um reset de status.
func (s *Service) Revert(ctx context.Context, submissaoID string) (domain.Submissao, error) {
	if _, err := uuid.Parse(submissaoID); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID da submissão deve ser um UUID válido.")
	}

	submissao, err := s.repo.Revert(ctx, submissaoID)
	if err != nil {
		s.logger.Error("Falha ao reverter submissão.", err)
		return domain.Submissao{}, err
	}
	return submissao, nil
}

// EditAndResubmit altera as quantidades de uma Submissão ainda PENDENTE
// (inclusive logo após um revert) e regenera seu conjunto de Pedidos de forma
// idempotente, cobrindo TODAS as entradas da lista.
func (s *Service) EditAndResubmit(ctx context.Context, submissaoID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	if _, err := uuid.Parse(submissaoID); err != nil {
		return domain.Submissao{}, apperror.NewValidationError("O ID da submissão deve ser um UUID válido.")
	}
	if err := estoqueservice.ValidateUpdates(updates); err != nil {
		s.logger.Warn("Reedição rejeitada na validação das quantidades.", map[string]interface{}{"submissao_id": submissaoID, "error": err.Error()})
		return domain.Submissao{}, err
	}

	submissao, err := s.repo.Reconcile(ctx, submissaoID, updates)
	if err != nil {
		s.logger.Error("Falha ao reeditar submissão.", err)
		return domain.Submissao{}, err
	}

	s.logger.Info("Submissão reeditada com sucesso.", map[string]interface{}{
		"submissao_id": submissaoID,
		"pedidos":      len(submissao.Pedidos),
	})
	return submissao, nil
}
