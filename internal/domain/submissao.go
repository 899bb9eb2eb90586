package domain

import "time"

// PedidoStatus é o estado de aprovação de um Pedido individual.
type PedidoStatus string

const (
	PedidoPendente  PedidoStatus = "PENDENTE"
	PedidoAprovado  PedidoStatus = "APROVADO"
	PedidoRejeitado PedidoStatus = "REJEITADO"
)

// Terminal indica se o pedido já recebeu uma decisão (aprovado ou rejeitado).
func (s PedidoStatus) Terminal() bool {
	return s == PedidoAprovado || s == PedidoRejeitado
}

// Pedido é a solicitação de compra derivada do déficit de estoque de uma
// entrada. O nome do item, a unidade e a quantidade são congelados no momento
// da submissão: mudanças posteriores no estoque vivo não realimentam o pedido.
type Pedido struct {
	ID                string       `json:"id"`
	SubmissaoID       string       `json:"submissao_id"`
	EntryID           string       `json:"entry_id"`
	ItemName          string       `json:"item_name"`
	Unit              string       `json:"unit"`
	RequestedQuantity float64      `json:"requested_quantity"`
	Status            PedidoStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// SubmissaoStatus é o estado agregado de uma Submissão, sempre derivado dos
// status dos seus Pedidos (ver RollUpStatus).
type SubmissaoStatus string

const (
	SubmissaoPendente             SubmissaoStatus = "PENDENTE"
	SubmissaoAprovada             SubmissaoStatus = "APROVADO"
	SubmissaoRejeitada            SubmissaoStatus = "REJEITADO"
	SubmissaoParcialmenteAprovada SubmissaoStatus = "PARCIALMENTE_APROVADO"
)

// Submissao agrupa todos os Pedidos gerados por uma ação de submissão de
// planilha de estoque. Submissões nunca são apagadas fisicamente: são o
// registro de auditoria do fluxo de aprovação.
type Submissao struct {
	ID          string          `json:"id"`
	ListID      string          `json:"list_id"`
	SubmittedBy string          `json:"submitted_by"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Status      SubmissaoStatus `json:"status"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Pedidos     []Pedido        `json:"pedidos"`
}

// BuildPedidos materializa um Pedido PENDENTE para cada entrada com déficit
// positivo. Entradas cujo déficit derivado é zero não viram Pedido.
func BuildPedidos(entries []StockEntry) []Pedido {
	var pedidos []Pedido
	for _, e := range entries {
		qty := DeriveOrderQuantity(e.CurrentQuantity, e.MinimumQuantity)
		if qty <= 0 {
			continue
		}
		pedidos = append(pedidos, Pedido{
			EntryID:           e.ID,
			ItemName:          e.ItemName,
			Unit:              e.Unit,
			RequestedQuantity: qty,
			Status:            PedidoPendente,
		})
	}
	return pedidos
}

// RollUpStatus é a única implementação da regra de agregação de status da
// Submissão. Deve ser recalculada após toda transição de Pedido:
//   - todos APROVADO            -> APROVADO
//   - todos REJEITADO           -> REJEITADO
//   - mistura sem PENDENTE      -> PARCIALMENTE_APROVADO
//   - qualquer PENDENTE restante -> PENDENTE
func RollUpStatus(pedidos []Pedido) SubmissaoStatus {
	var aprovados, rejeitados int
	for _, p := range pedidos {
		switch p.Status {
		case PedidoAprovado:
			aprovados++
		case PedidoRejeitado:
			rejeitados++
		default:
			return SubmissaoPendente
		}
	}
	switch {
	case len(pedidos) == 0:
		return SubmissaoPendente
	case aprovados == len(pedidos):
		return SubmissaoAprovada
	case rejeitados == len(pedidos):
		return SubmissaoRejeitada
	default:
		return SubmissaoParcialmenteAprovada
	}
}

// ReconcilePedidos compara os pedidos existentes de uma submissão com o estado
// atualizado das entradas da lista e devolve o conjunto final de pedidos:
//   - entrada com déficit positivo reaproveita o pedido existente (mesmo ID,
//     quantidade recalculada, status de volta a PENDENTE) ou gera um novo;
//   - entrada sem déficit tem o pedido existente marcado para remoção.
// A operação é idempotente: duas chamadas com a mesma entrada produzem o
// mesmo conjunto de pedidos.
func ReconcilePedidos(existing []Pedido, entries []StockEntry) (upserts []Pedido, removedIDs []string) {
	byEntry := make(map[string]Pedido, len(existing))
	for _, p := range existing {
		byEntry[p.EntryID] = p
	}

	wanted := make(map[string]bool, len(entries))
	for _, e := range entries {
		qty := DeriveOrderQuantity(e.CurrentQuantity, e.MinimumQuantity)
		if qty <= 0 {
			continue
		}
		wanted[e.ID] = true

		pedido := Pedido{
			EntryID:           e.ID,
			ItemName:          e.ItemName,
			Unit:              e.Unit,
			RequestedQuantity: qty,
			Status:            PedidoPendente,
		}
		if prev, ok := byEntry[e.ID]; ok {
			pedido.ID = prev.ID
			pedido.SubmissaoID = prev.SubmissaoID
		}
		upserts = append(upserts, pedido)
	}

	for _, p := range existing {
		if !wanted[p.EntryID] {
			removedIDs = append(removedIDs, p.ID)
		}
	}
	return upserts, removedIDs
}

// BatchResult é o resultado agregado de uma operação em lote de aprovação ou
// rejeição. Cada membro do lote é validado de forma independente: uma falha
// não aborta os demais.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// BatchFailure registra a falha de um único membro do lote.
type BatchFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
