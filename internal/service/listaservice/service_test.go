package listaservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/service/listaservice"
)

// MockListaRepository é uma implementação mock da interface ListaRepository
type MockListaRepository struct {
	mock.Mock
}

func (m *MockListaRepository) Create(ctx context.Context, lista domain.Lista) (domain.Lista, error) {
	args := m.Called(ctx, lista)
	return args.Get(0).(domain.Lista), args.Error(1)
}

func (m *MockListaRepository) FindByID(ctx context.Context, id string) (domain.Lista, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Lista), args.Error(1)
}

func (m *MockListaRepository) FindAll(ctx context.Context, filter domain.ListaFilter) ([]domain.Lista, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lista), args.Error(1)
}

func (m *MockListaRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListaRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListaRepository) PermanentDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestCreateLista_Success testa a criação de uma lista válida.
func TestCreateLista_Success(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	lista := domain.Lista{
		Name:          "Cozinha Principal",
		AreaID:        uuid.New().String(),
		Collaborators: []string{uuid.New().String()},
	}
	created := lista
	created.ID = uuid.New().String()

	mockRepo.On("Create", mock.AnythingOfType("context.backgroundCtx"), lista).
		Return(created, nil)

	result, err := svc.CreateLista(context.Background(), lista)

	assert.NoError(t, err)
	assert.Equal(t, created.ID, result.ID)
	mockRepo.AssertExpectations(t)
}

// TestCreateLista_Fail_ShortName testa a validação do tamanho do nome.
func TestCreateLista_Fail_ShortName(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	_, err := svc.CreateLista(context.Background(), domain.Lista{Name: "ab"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "entre 3 e 100")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateLista_Fail_InvalidCollaborator testa a validação dos colaboradores.
func TestCreateLista_Fail_InvalidCollaborator(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	lista := domain.Lista{
		Name:          "Almoxarifado",
		Collaborators: []string{"nao-e-uuid"},
	}

	_, err := svc.CreateLista(context.Background(), lista)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestGetListas_FiltraLixeira testa que o filtro de lixeira é repassado ao repositório.
func TestGetListas_FiltraLixeira(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	filter := domain.ListaFilter{Trashed: true}
	trashed := []domain.Lista{{ID: uuid.New().String(), Name: "Lista antiga"}}

	mockRepo.On("FindAll", mock.AnythingOfType("context.backgroundCtx"), filter).
		Return(trashed, nil)

	result, err := svc.GetListas(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertExpectations(t)
}

// TestSoftDelete_Fail_NotFound testa a remoção lógica de uma lista inexistente.
func TestSoftDelete_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	id := uuid.New().String()

	mockRepo.On("SoftDelete", mock.AnythingOfType("context.backgroundCtx"), id).
		Return(apperror.NewNotFoundError("Lista ativa não encontrada."))

	err := svc.SoftDelete(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestPermanentDelete_Fail_StillActive testa que uma lista ativa não pode ser
// removida permanentemente sem antes ir para a lixeira.
func TestPermanentDelete_Fail_StillActive(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	id := uuid.New().String()

	mockRepo.On("PermanentDelete", mock.AnythingOfType("context.backgroundCtx"), id).
		Return(apperror.NewInvalidTransitionError("A lista ainda está ativa; mova-a para a lixeira antes."))

	err := svc.PermanentDelete(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidTransitionError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestPermanentDeleteBatch_PartialSuccess testa a semântica de sucesso parcial
// do lote de remoção permanente.
func TestPermanentDeleteBatch_PartialSuccess(t *testing.T) {
	mockRepo := new(MockListaRepository)
	mockLogger := logger.NewLogger("debug")

	svc := listaservice.NewService(mockRepo, mockLogger)

	okID := uuid.New().String()
	failID := uuid.New().String()

	mockRepo.On("PermanentDelete", mock.AnythingOfType("context.backgroundCtx"), okID).
		Return(nil)
	mockRepo.On("PermanentDelete", mock.AnythingOfType("context.backgroundCtx"), failID).
		Return(apperror.NewNotFoundError("Lista não encontrada na lixeira."))

	result := svc.PermanentDeleteBatch(context.Background(), []string{okID, failID, "id-invalido"})

	assert.Equal(t, []string{okID}, result.Succeeded)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, failID, result.Failed[0].ID)
	assert.Equal(t, "id-invalido", result.Failed[1].ID)
	mockRepo.AssertExpectations(t)
}
