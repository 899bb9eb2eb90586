package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"golista/internal/domain"
)

// TestBuildPedidos testa a materialização de pedidos a partir das entradas com déficit.
func TestBuildPedidos(t *testing.T) {
	entries := []domain.StockEntry{
		{ID: uuid.NewString(), ItemName: "Arroz", Unit: "kg", CurrentQuantity: 2, MinimumQuantity: 5},
		{ID: uuid.NewString(), ItemName: "Feijão", Unit: "kg", CurrentQuantity: 8, MinimumQuantity: 5},
	}

	pedidos := domain.BuildPedidos(entries)

	// Apenas o arroz tem déficit: 5 - 2 = 3. O feijão está acima do mínimo.
	assert.Len(t, pedidos, 1)
	assert.Equal(t, entries[0].ID, pedidos[0].EntryID)
	assert.Equal(t, "Arroz", pedidos[0].ItemName)
	assert.Equal(t, "kg", pedidos[0].Unit)
	assert.Equal(t, 3.0, pedidos[0].RequestedQuantity)
	assert.Equal(t, domain.PedidoPendente, pedidos[0].Status)
}

// TestBuildPedidos_SemDeficit testa que nenhuma entrada com estoque suficiente gera pedido.
func TestBuildPedidos_SemDeficit(t *testing.T) {
	entries := []domain.StockEntry{
		{ID: uuid.NewString(), ItemName: "Açúcar", CurrentQuantity: 5, MinimumQuantity: 5},
		{ID: uuid.NewString(), ItemName: "Sal", CurrentQuantity: 10, MinimumQuantity: 2},
	}

	pedidos := domain.BuildPedidos(entries)

	assert.Empty(t, pedidos)
}

// TestRollUpStatus testa a regra de agregação de status da submissão.
func TestRollUpStatus(t *testing.T) {
	testCases := []struct {
		name     string
		statuses []domain.PedidoStatus
		expected domain.SubmissaoStatus
	}{
		{"todos aprovados", []domain.PedidoStatus{domain.PedidoAprovado, domain.PedidoAprovado}, domain.SubmissaoAprovada},
		{"todos rejeitados", []domain.PedidoStatus{domain.PedidoRejeitado, domain.PedidoRejeitado}, domain.SubmissaoRejeitada},
		{"mistura sem pendente", []domain.PedidoStatus{domain.PedidoAprovado, domain.PedidoRejeitado}, domain.SubmissaoParcialmenteAprovada},
		{"qualquer pendente domina", []domain.PedidoStatus{domain.PedidoAprovado, domain.PedidoPendente, domain.PedidoRejeitado}, domain.SubmissaoPendente},
		{"pedido unico aprovado", []domain.PedidoStatus{domain.PedidoAprovado}, domain.SubmissaoAprovada},
		{"sem pedidos", nil, domain.SubmissaoPendente},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var pedidos []domain.Pedido
			for _, s := range tc.statuses {
				pedidos = append(pedidos, domain.Pedido{Status: s})
			}
			assert.Equal(t, tc.expected, domain.RollUpStatus(pedidos))
		})
	}
}

// TestReconcilePedidos testa a reconciliação de pedidos na ressubmissão.
func TestReconcilePedidos(t *testing.T) {
	entryA := uuid.NewString() // mantém déficit, com quantidade nova
	entryB := uuid.NewString() // perde o déficit
	entryC := uuid.NewString() // ganha déficit

	existing := []domain.Pedido{
		{ID: uuid.NewString(), SubmissaoID: "sub-1", EntryID: entryA, ItemName: "Arroz", RequestedQuantity: 3, Status: domain.PedidoAprovado},
		{ID: uuid.NewString(), SubmissaoID: "sub-1", EntryID: entryB, ItemName: "Feijão", RequestedQuantity: 2, Status: domain.PedidoPendente},
	}

	entries := []domain.StockEntry{
		{ID: entryA, ItemName: "Arroz", CurrentQuantity: 1, MinimumQuantity: 5},
		{ID: entryB, ItemName: "Feijão", CurrentQuantity: 6, MinimumQuantity: 5},
		{ID: entryC, ItemName: "Óleo", CurrentQuantity: 0, MinimumQuantity: 2},
	}

	upserts, removed := domain.ReconcilePedidos(existing, entries)

	assert.Len(t, upserts, 2)
	assert.Len(t, removed, 1)

	// O pedido do arroz reaproveita o ID existente, recalcula a quantidade e
	// volta a PENDENTE mesmo tendo sido aprovado antes.
	assert.Equal(t, existing[0].ID, upserts[0].ID)
	assert.Equal(t, 4.0, upserts[0].RequestedQuantity)
	assert.Equal(t, domain.PedidoPendente, upserts[0].Status)

	// O óleo é um pedido novo, ainda sem ID.
	assert.Empty(t, upserts[1].ID)
	assert.Equal(t, entryC, upserts[1].EntryID)
	assert.Equal(t, 2.0, upserts[1].RequestedQuantity)

	// O feijão perdeu o déficit: o pedido existente é removido.
	assert.Equal(t, existing[1].ID, removed[0])
}

// TestReconcilePedidos_Idempotente testa que reconciliar duas vezes com as
// mesmas entradas produz o mesmo conjunto de pedidos.
func TestReconcilePedidos_Idempotente(t *testing.T) {
	entryID := uuid.NewString()
	entries := []domain.StockEntry{
		{ID: entryID, ItemName: "Café", CurrentQuantity: 1, MinimumQuantity: 3},
	}

	first, removedFirst := domain.ReconcilePedidos(nil, entries)
	assert.Len(t, first, 1)
	assert.Empty(t, removedFirst)

	// Simula a persistência da primeira rodada e reconcilia de novo.
	first[0].ID = uuid.NewString()
	first[0].SubmissaoID = "sub-1"

	second, removedSecond := domain.ReconcilePedidos(first, entries)
	assert.Empty(t, removedSecond)
	assert.Equal(t, first, second)
}
