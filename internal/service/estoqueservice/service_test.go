package estoqueservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/service/estoqueservice"
)

// MockStockRepository é uma implementação mock da interface StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindByList(ctx context.Context, listID string) ([]domain.StockEntry, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockEntry), args.Error(1)
}

func (m *MockStockRepository) Save(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(domain.StockEntry), args.Error(1)
}

func (m *MockStockRepository) UpdateQuantities(ctx context.Context, listID string, updates []domain.QuantityUpdate) error {
	args := m.Called(ctx, listID, updates)
	return args.Error(0)
}

// TestGetEntries_DerivaQuantidadeAPedir testa que a quantidade a pedir é
// derivada na leitura a partir das quantidades persistidas.
func TestGetEntries_DerivaQuantidadeAPedir(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	listID := uuid.New().String()
	entries := []domain.StockEntry{
		{ID: uuid.New().String(), ListID: listID, ItemName: "Arroz", CurrentQuantity: 2, MinimumQuantity: 5},
		{ID: uuid.New().String(), ListID: listID, ItemName: "Feijão", CurrentQuantity: 8, MinimumQuantity: 5},
	}

	mockRepo.On("FindByList", mock.AnythingOfType("context.backgroundCtx"), listID).
		Return(entries, nil)

	result, err := svc.GetEntries(context.Background(), listID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, 3.0, result[0].QuantityToOrder) // 5 - 2
	assert.Equal(t, 0.0, result[1].QuantityToOrder) // acima do mínimo
	mockRepo.AssertExpectations(t)
}

// TestGetEntries_Fail_InvalidID testa a rejeição de um ID de lista malformado.
func TestGetEntries_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	_, err := svc.GetEntries(context.Background(), "nao-e-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByList", mock.Anything, mock.Anything)
}

// TestCreateEntry_Fail_NegativeQuantity testa que quantidades negativas são
// rejeitadas antes de qualquer chamada ao repositório.
func TestCreateEntry_Fail_NegativeQuantity(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	entry := domain.StockEntry{
		ListID:          uuid.New().String(),
		ItemName:        "Arroz",
		CurrentQuantity: -1,
		MinimumQuantity: 5,
	}

	_, err := svc.CreateEntry(context.Background(), entry)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "negativas")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateEntry_Success testa a criação de uma entrada válida.
func TestCreateEntry_Success(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	entry := domain.StockEntry{
		ListID:          uuid.New().String(),
		ItemName:        "Café",
		Unit:            "kg",
		CurrentQuantity: 0,
		MinimumQuantity: 2,
	}
	saved := entry
	saved.ID = uuid.New().String()
	saved.Version = 1

	mockRepo.On("Save", mock.AnythingOfType("context.backgroundCtx"), entry).
		Return(saved, nil)

	result, err := svc.CreateEntry(context.Background(), entry)

	assert.NoError(t, err)
	assert.Equal(t, saved.ID, result.ID)
	assert.Equal(t, 1, result.Version)
	mockRepo.AssertExpectations(t)
}

// TestUpdateQuantities_Fail_NegativeInBatch testa que uma única quantidade
// negativa rejeita o lote inteiro, sem nenhuma escrita.
func TestUpdateQuantities_Fail_NegativeInBatch(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	listID := uuid.New().String()
	updates := []domain.QuantityUpdate{
		{EntryID: uuid.New().String(), CurrentQuantity: 4, Version: 1},
		{EntryID: uuid.New().String(), CurrentQuantity: -2, Version: 1},
	}

	err := svc.UpdateQuantities(context.Background(), listID, updates)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "UpdateQuantities", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateQuantities_Fail_OCCConflict testa a propagação do conflito de
// concorrência otimista do repositório.
func TestUpdateQuantities_Fail_OCCConflict(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	listID := uuid.New().String()
	updates := []domain.QuantityUpdate{
		{EntryID: uuid.New().String(), CurrentQuantity: 4, Version: 1},
	}

	mockRepo.On("UpdateQuantities", mock.AnythingOfType("context.backgroundCtx"), listID, updates).
		Return(apperror.NewConflictError("A entrada foi modificada por outra operação. Recarregue e tente novamente."))

	err := svc.UpdateQuantities(context.Background(), listID, updates)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestUpdateQuantities_Fail_EmptyBatch testa a rejeição de um lote vazio.
func TestUpdateQuantities_Fail_EmptyBatch(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := estoqueservice.NewService(mockRepo, mockLogger)

	err := svc.UpdateQuantities(context.Background(), uuid.New().String(), nil)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "UpdateQuantities", mock.Anything, mock.Anything, mock.Anything)
}
