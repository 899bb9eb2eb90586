package domain

import "time"

// ListaRapidaStatus é o estado do fluxo simplificado de sugestão de itens.
// Os valores em minúsculas preservam o vocabulário original do domínio.
type ListaRapidaStatus string

const (
	ListaRapidaRascunho  ListaRapidaStatus = "rascunho"
	ListaRapidaPendente  ListaRapidaStatus = "pendente"
	ListaRapidaAprovada  ListaRapidaStatus = "aprovada"
	ListaRapidaRejeitada ListaRapidaStatus = "rejeitada"
)

// ItemPriority é a prioridade atribuída pelo colaborador a um item sugerido.
type ItemPriority string

const (
	PriorityPrevencao      ItemPriority = "prevencao"
	PriorityPrecisaComprar ItemPriority = "precisa_comprar"
	PriorityUrgente        ItemPriority = "urgente"
)

// Valid informa se o valor é uma das prioridades conhecidas.
func (p ItemPriority) Valid() bool {
	switch p {
	case PriorityPrevencao, PriorityPrecisaComprar, PriorityUrgente:
		return true
	}
	return false
}

// ItemListaRapida é um item sugerido dentro de uma Lista Rápida. Itens só
// podem ser criados/editados/removidos enquanto a lista está em rascunho.
type ItemListaRapida struct {
	ID            string       `json:"id"`
	ListaRapidaID string       `json:"lista_rapida_id"`
	ItemName      string       `json:"item_name"`
	Priority      ItemPriority `json:"priority"`
	Note          string       `json:"note"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ListaRapida é o fluxo leve de sugestão usado por colaboradores sem área
// fixa. A aprovação aqui nunca materializa Pedidos: apenas sinaliza que os
// itens sugeridos devem ser incorporados manualmente ao catálogo.
type ListaRapida struct {
	ID           string            `json:"id"`
	CreatedBy    string            `json:"created_by"`
	Status       ListaRapidaStatus `json:"status"`
	AdminMessage string            `json:"admin_message,omitempty"`
	Items        []ItemListaRapida `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
