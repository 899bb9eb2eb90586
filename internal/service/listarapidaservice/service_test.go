package listarapidaservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/service/listarapidaservice"
)

// MockListaRapidaRepository é uma implementação mock da interface ListaRapidaRepository
type MockListaRapidaRepository struct {
	mock.Mock
}

func (m *MockListaRapidaRepository) Create(ctx context.Context, lista domain.ListaRapida) (domain.ListaRapida, error) {
	args := m.Called(ctx, lista)
	return args.Get(0).(domain.ListaRapida), args.Error(1)
}

func (m *MockListaRapidaRepository) FindByID(ctx context.Context, id string) (domain.ListaRapida, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ListaRapida), args.Error(1)
}

func (m *MockListaRapidaRepository) AddItem(ctx context.Context, listaID string, item domain.ItemListaRapida) (domain.ItemListaRapida, error) {
	args := m.Called(ctx, listaID, item)
	return args.Get(0).(domain.ItemListaRapida), args.Error(1)
}

func (m *MockListaRapidaRepository) UpdateItem(ctx context.Context, listaID string, item domain.ItemListaRapida) error {
	args := m.Called(ctx, listaID, item)
	return args.Error(0)
}

func (m *MockListaRapidaRepository) RemoveItem(ctx context.Context, listaID, itemID string) error {
	args := m.Called(ctx, listaID, itemID)
	return args.Error(0)
}

func (m *MockListaRapidaRepository) Submeter(ctx context.Context, id string) (domain.ListaRapida, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ListaRapida), args.Error(1)
}

func (m *MockListaRapidaRepository) Decide(ctx context.Context, id string, to domain.ListaRapidaStatus, adminMessage string) (domain.ListaRapida, error) {
	args := m.Called(ctx, id, to, adminMessage)
	return args.Get(0).(domain.ListaRapida), args.Error(1)
}

func (m *MockListaRapidaRepository) Reverter(ctx context.Context, id string) (domain.ListaRapida, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ListaRapida), args.Error(1)
}

// TestCreate_Fail_InvalidPriority testa que um item com prioridade desconhecida
// é rejeitado antes de qualquer chamada ao repositório.
func TestCreate_Fail_InvalidPriority(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	items := []domain.ItemListaRapida{
		{ItemName: "Detergente", Priority: "critico"},
	}

	_, err := svc.Create(context.Background(), uuid.New().String(), items)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "prioridade")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreate_Success testa a criação de uma lista rápida em rascunho.
func TestCreate_Success(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	createdBy := uuid.New().String()
	items := []domain.ItemListaRapida{
		{ItemName: "Detergente", Priority: domain.PriorityUrgente},
	}
	expected := domain.ListaRapida{
		ID:        uuid.New().String(),
		CreatedBy: createdBy,
		Status:    domain.ListaRapidaRascunho,
		Items:     items,
	}

	mockRepo.On("Create", mock.AnythingOfType("context.backgroundCtx"), mock.AnythingOfType("domain.ListaRapida")).
		Return(expected, nil)

	result, err := svc.Create(context.Background(), createdBy, items)

	assert.NoError(t, err)
	assert.Equal(t, domain.ListaRapidaRascunho, result.Status)
	mockRepo.AssertExpectations(t)
}

// TestAddItem_Fail_NotDraft testa que adicionar itens fora do rascunho é uma
// transição inválida.
func TestAddItem_Fail_NotDraft(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	listaID := uuid.New().String()
	item := domain.ItemListaRapida{ItemName: "Sabão", Priority: domain.PriorityPrevencao}

	mockRepo.On("AddItem", mock.AnythingOfType("context.backgroundCtx"), listaID, item).
		Return(domain.ItemListaRapida{}, apperror.NewInvalidTransitionError("A lista rápida não está mais em rascunho."))

	_, err := svc.AddItem(context.Background(), listaID, item)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidTransitionError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestSubmeter_Fail_SemItens testa que uma lista rápida sem itens não pode ser submetida.
func TestSubmeter_Fail_SemItens(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	listaID := uuid.New().String()

	mockRepo.On("Submeter", mock.AnythingOfType("context.backgroundCtx"), listaID).
		Return(domain.ListaRapida{}, apperror.NewValidationError("A lista rápida não tem itens para submeter."))

	_, err := svc.Submeter(context.Background(), listaID)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestRejeitar_Fail_SemMensagem testa que a rejeição sem mensagem do admin é
// rejeitada antes de qualquer chamada ao repositório.
func TestRejeitar_Fail_SemMensagem(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	_, err := svc.Rejeitar(context.Background(), uuid.New().String(), "   ")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "mensagem")
	mockRepo.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestRejeitar_Success testa a rejeição com mensagem obrigatória.
func TestRejeitar_Success(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	listaID := uuid.New().String()
	msg := "Itens fora do catálogo deste mês."
	expected := domain.ListaRapida{ID: listaID, Status: domain.ListaRapidaRejeitada, AdminMessage: msg}

	mockRepo.On("Decide", mock.AnythingOfType("context.backgroundCtx"), listaID, domain.ListaRapidaRejeitada, msg).
		Return(expected, nil)

	result, err := svc.Rejeitar(context.Background(), listaID, msg)

	assert.NoError(t, err)
	assert.Equal(t, domain.ListaRapidaRejeitada, result.Status)
	assert.Equal(t, msg, result.AdminMessage)
	mockRepo.AssertExpectations(t)
}

// TestAprovar_Success_SemMensagem testa que a aprovação dispensa mensagem.
func TestAprovar_Success_SemMensagem(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	listaID := uuid.New().String()
	expected := domain.ListaRapida{ID: listaID, Status: domain.ListaRapidaAprovada}

	mockRepo.On("Decide", mock.AnythingOfType("context.backgroundCtx"), listaID, domain.ListaRapidaAprovada, "").
		Return(expected, nil)

	result, err := svc.Aprovar(context.Background(), listaID, "")

	assert.NoError(t, err)
	assert.Equal(t, domain.ListaRapidaAprovada, result.Status)
	mockRepo.AssertExpectations(t)
}

// TestReverter_Success testa o retorno de uma lista decidida para pendente.
func TestReverter_Success(t *testing.T) {
	mockRepo := new(MockListaRapidaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listarapidaservice.NewService(mockRepo, mockLogger)

	listaID := uuid.New().String()
	expected := domain.ListaRapida{ID: listaID, Status: domain.ListaRapidaPendente, AdminMessage: ""}

	mockRepo.On("Reverter", mock.AnythingOfType("context.backgroundCtx"), listaID).
		Return(expected, nil)

	result, err := svc.Reverter(context.Background(), listaID)

	assert.NoError(t, err)
	assert.Equal(t, domain.ListaRapidaPendente, result.Status)
	assert.Empty(t, result.AdminMessage)
	mockRepo.AssertExpectations(t)
}
