package domain

import "time"

// StockEntry representa o nível de estoque de um item dentro de uma Lista.
// As quantidades atual e mínima são sempre >= 0. A coluna 'version' é usada
// para Controle de Concorrência Otimista (OCC) nas atualizações de quantidade.
type StockEntry struct {
	ID              string    `json:"id"`
	ListID          string    `json:"list_id"`
	ItemName        string    `json:"item_name"`
	Unit            string    `json:"unit"`
	CurrentQuantity float64   `json:"current_quantity"`
	MinimumQuantity float64   `json:"minimum_quantity"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// QuantityToOrder é sempre derivada no momento da leitura.
	// Nunca é persistida: um valor derivado obsoleto é um bug de correção.
	QuantityToOrder float64 `json:"quantity_to_order"`
}

// QuantityUpdate é uma atualização parcial de quantidade para uma entrada da
// planilha de estoque. Entradas não incluídas no lote permanecem intocadas.
type QuantityUpdate struct {
	EntryID         string  `json:"entry_id"`
	CurrentQuantity float64 `json:"current_quantity"`
	Version         int     `json:"version"`
}

// DeriveOrderQuantity calcula a quantidade a pedir a partir do estoque atual
// e do mínimo configurado: max(0, minimum - current). Função pura, sem efeitos
// colaterais; deve ser recalculada sempre que uma das entradas mudar.
func DeriveOrderQuantity(current, minimum float64) float64 {
	if minimum <= current {
		return 0
	}
	return minimum - current
}
