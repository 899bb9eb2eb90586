package submissaoservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/service/submissaoservice"
)

// MockSubmissaoRepository é uma implementação mock da interface SubmissaoRepository
type MockSubmissaoRepository struct {
	mock.Mock
}

func (m *MockSubmissaoRepository) Create(ctx context.Context, listID, userID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	args := m.Called(ctx, listID, userID, updates)
	return args.Get(0).(domain.Submissao), args.Error(1)
}

func (m *MockSubmissaoRepository) FindByID(ctx context.Context, id string) (domain.Submissao, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Submissao), args.Error(1)
}

func (m *MockSubmissaoRepository) FindPedidoByID(ctx context.Context, id string) (domain.Pedido, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Pedido), args.Error(1)
}

func (m *MockSubmissaoRepository) TransitionPedido(ctx context.Context, pedidoID string, to domain.PedidoStatus) (domain.Pedido, error) {
	args := m.Called(ctx, pedidoID, to)
	return args.Get(0).(domain.Pedido), args.Error(1)
}

func (m *MockSubmissaoRepository) TransitionPendentes(ctx context.Context, submissaoID string, to domain.PedidoStatus) (domain.Submissao, error) {
	args := m.Called(ctx, submissaoID, to)
	return args.Get(0).(domain.Submissao), args.Error(1)
}

func (m *MockSubmissaoRepository) Revert(ctx context.Context, submissaoID string) (domain.Submissao, error) {
	args := m.Called(ctx, submissaoID)
	return args.Get(0).(domain.Submissao), args.Error(1)
}

func (m *MockSubmissaoRepository) Reconcile(ctx context.Context, submissaoID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	args := m.Called(ctx, submissaoID, updates)
	return args.Get(0).(domain.Submissao), args.Error(1)
}

// TestSubmit_Success testa uma submissão bem-sucedida com pedidos materializados.
func TestSubmit_Success(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	listID := uuid.New().String()
	userID := uuid.New().String()
	updates := []domain.QuantityUpdate{
		{EntryID: uuid.New().String(), CurrentQuantity: 2, Version: 1},
	}

	expected := domain.Submissao{
		ID:          uuid.New().String(),
		ListID:      listID,
		SubmittedBy: userID,
		Status:      domain.SubmissaoPendente,
		Pedidos: []domain.Pedido{
			{ID: uuid.New().String(), ItemName: "Arroz", RequestedQuantity: 3, Status: domain.PedidoPendente},
		},
	}

	mockRepo.On("Create", mock.AnythingOfType("context.backgroundCtx"), listID, userID, updates).
		Return(expected, nil)

	result, err := svc.Submit(context.Background(), listID, userID, updates)

	assert.NoError(t, err)
	assert.Equal(t, domain.SubmissaoPendente, result.Status)
	assert.Len(t, result.Pedidos, 1)
	mockRepo.AssertExpectations(t)
}

// TestSubmit_Fail_NegativeQuantity testa que o lote é validado antes de
// qualquer chamada ao repositório.
func TestSubmit_Fail_NegativeQuantity(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	updates := []domain.QuantityUpdate{
		{EntryID: uuid.New().String(), CurrentQuantity: -3, Version: 1},
	}

	_, err := svc.Submit(context.Background(), uuid.New().String(), uuid.New().String(), updates)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestSubmit_Fail_EmptySubmission testa a propagação do erro de submissão vazia.
func TestSubmit_Fail_EmptySubmission(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	listID := uuid.New().String()
	userID := uuid.New().String()

	mockRepo.On("Create", mock.AnythingOfType("context.backgroundCtx"), listID, userID, mock.Anything).
		Return(domain.Submissao{}, apperror.NewEmptySubmissionError("Nenhuma entrada está abaixo do mínimo; não há nada para pedir."))

	_, err := svc.Submit(context.Background(), listID, userID, nil)

	assert.Error(t, err)
	assert.IsType(t, &apperror.EmptySubmissionError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestApproveOrder_Fail_AlreadyTerminal testa que decidir um pedido já
// decidido devolve uma transição inválida.
func TestApproveOrder_Fail_AlreadyTerminal(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	pedidoID := uuid.New().String()

	mockRepo.On("TransitionPedido", mock.AnythingOfType("context.backgroundCtx"), pedidoID, domain.PedidoAprovado).
		Return(domain.Pedido{}, apperror.NewInvalidTransitionError("O pedido já foi decidido."))

	_, err := svc.ApproveOrder(context.Background(), pedidoID)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidTransitionError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestRejectBatch_PartialSuccess testa a semântica de sucesso parcial: um
// pedido pendente é rejeitado, um pedido terminal falha, e o resultado reporta
// os dois de forma independente.
func TestRejectBatch_PartialSuccess(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	pendenteID := uuid.New().String()
	terminalID := uuid.New().String()

	mockRepo.On("TransitionPedido", mock.AnythingOfType("context.backgroundCtx"), pendenteID, domain.PedidoRejeitado).
		Return(domain.Pedido{ID: pendenteID, Status: domain.PedidoRejeitado}, nil)
	mockRepo.On("TransitionPedido", mock.AnythingOfType("context.backgroundCtx"), terminalID, domain.PedidoRejeitado).
		Return(domain.Pedido{}, apperror.NewInvalidTransitionError("O pedido já foi decidido."))

	result := svc.RejectBatch(context.Background(), []string{pendenteID, terminalID, "id-invalido"})

	assert.Equal(t, []string{pendenteID}, result.Succeeded)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, terminalID, result.Failed[0].ID)
	assert.Equal(t, "id-invalido", result.Failed[1].ID)
	mockRepo.AssertExpectations(t)
}

// TestApproveSubmissao_Success testa a aprovação atômica de todos os
// pedidos pendentes de uma submissão.
func TestApproveSubmissao_Success(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	submissaoID := uuid.New().String()
	expected := domain.Submissao{ID: submissaoID, Status: domain.SubmissaoAprovada}

	mockRepo.On("TransitionPendentes", mock.AnythingOfType("context.backgroundCtx"), submissaoID, domain.PedidoAprovado).
		Return(expected, nil)

	result, err := svc.ApproveSubmissao(context.Background(), submissaoID)

	assert.NoError(t, err)
	assert.Equal(t, domain.SubmissaoAprovada, result.Status)
	mockRepo.AssertExpectations(t)
}

// TestRevert_Success testa o reset completo das decisões de uma submissão.
func TestRevert_Success(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	submissaoID := uuid.New().String()
	expected := domain.Submissao{
		ID:     submissaoID,
		Status: domain.SubmissaoPendente,
		Pedidos: []domain.Pedido{
			{Status: domain.PedidoPendente},
			{Status: domain.PedidoPendente},
		},
	}

	mockRepo.On("Revert", mock.AnythingOfType("context.backgroundCtx"), submissaoID).
		Return(expected, nil)

	result, err := svc.Revert(context.Background(), submissaoID)

	assert.NoError(t, err)
	assert.Equal(t, domain.SubmissaoPendente, result.Status)
	for _, p := range result.Pedidos {
		assert.Equal(t, domain.PedidoPendente, p.Status)
	}
	mockRepo.AssertExpectations(t)
}

// TestRevert_Fail_NotTerminal testa que reverter uma submissão ainda pendente
// é uma transição inválida.
func TestRevert_Fail_NotTerminal(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	submissaoID := uuid.New().String()

	mockRepo.On("Revert", mock.AnythingOfType("context.backgroundCtx"), submissaoID).
		Return(domain.Submissao{}, apperror.NewInvalidTransitionError("A submissão não tem decisão para reverter."))

	_, err := svc.Revert(context.Background(), submissaoID)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidTransitionError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestEditAndResubmit_Success testa a reedição de uma submissão pendente.
func TestEditAndResubmit_Success(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	submissaoID := uuid.New().String()
	updates := []domain.QuantityUpdate{
		{EntryID: uuid.New().String(), CurrentQuantity: 1, Version: 2},
	}
	expected := domain.Submissao{
		ID:     submissaoID,
		Status: domain.SubmissaoPendente,
		Pedidos: []domain.Pedido{
			{ItemName: "Arroz", RequestedQuantity: 4, Status: domain.PedidoPendente},
		},
	}

	mockRepo.On("Reconcile", mock.AnythingOfType("context.backgroundCtx"), submissaoID, updates).
		Return(expected, nil)

	result, err := svc.EditAndResubmit(context.Background(), submissaoID, updates)

	assert.NoError(t, err)
	assert.Equal(t, domain.SubmissaoPendente, result.Status)
	assert.Len(t, result.Pedidos, 1)
	mockRepo.AssertExpectations(t)
}

// TestEditAndResubmit_Fail_InvalidUpdates testa que a validação do lote
// acontece antes de qualquer chamada ao repositório.
func TestEditAndResubmit_Fail_InvalidUpdates(t *testing.T) {
	mockRepo := new(MockSubmissaoRepository)
	mockLogger := logger.NewLogger("debug")

	svc := submissaoservice.NewService(mockRepo, mockLogger)

	updates := []domain.QuantityUpdate{
		{EntryID: "nao-e-uuid", CurrentQuantity: 1, Version: 1},
	}

	_, err := svc.EditAndResubmit(context.Background(), uuid.New().String(), updates)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}
