package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golista/internal/domain"
)

// TestListaRapidaWorkflow testa as transições do fluxo de listas rápidas.
func TestListaRapidaWorkflow(t *testing.T) {
	w := domain.ListaRapidaWorkflow

	// rascunho -> pendente
	assert.True(t, w.CanSubmit(string(domain.ListaRapidaRascunho)))
	assert.False(t, w.CanSubmit(string(domain.ListaRapidaPendente)))
	assert.False(t, w.CanSubmit(string(domain.ListaRapidaAprovada)))

	// pendente -> aprovada/rejeitada
	assert.True(t, w.CanDecide(string(domain.ListaRapidaPendente)))
	assert.False(t, w.CanDecide(string(domain.ListaRapidaRascunho)))
	assert.False(t, w.CanDecide(string(domain.ListaRapidaRejeitada)))

	// aprovada/rejeitada -> pendente (revert)
	assert.True(t, w.CanRevert(string(domain.ListaRapidaAprovada)))
	assert.True(t, w.CanRevert(string(domain.ListaRapidaRejeitada)))
	assert.False(t, w.CanRevert(string(domain.ListaRapidaPendente)))
	assert.False(t, w.CanRevert(string(domain.ListaRapidaRascunho)))
}

// TestSubmissaoWorkflow testa as transições do fluxo de submissões, que não
// possui estado de rascunho.
func TestSubmissaoWorkflow(t *testing.T) {
	w := domain.SubmissaoWorkflow

	// Submissões nascem pendentes: nada pode ser "submetido".
	assert.False(t, w.CanSubmit(string(domain.SubmissaoPendente)))

	assert.True(t, w.CanDecide(string(domain.SubmissaoPendente)))
	assert.False(t, w.CanDecide(string(domain.SubmissaoAprovada)))

	// Qualquer estado terminal, inclusive o parcial, pode ser revertido.
	assert.True(t, w.CanRevert(string(domain.SubmissaoAprovada)))
	assert.True(t, w.CanRevert(string(domain.SubmissaoRejeitada)))
	assert.True(t, w.CanRevert(string(domain.SubmissaoParcialmenteAprovada)))
	assert.False(t, w.CanRevert(string(domain.SubmissaoPendente)))
}

// TestPedidoStatusTerminal testa a detecção de estados terminais do pedido.
func TestPedidoStatusTerminal(t *testing.T) {
	assert.True(t, domain.PedidoAprovado.Terminal())
	assert.True(t, domain.PedidoRejeitado.Terminal())
	assert.False(t, domain.PedidoPendente.Terminal())
}
