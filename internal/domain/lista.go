package domain

import "time"

// Lista é o contêiner de StockEntries de uma área. Pode estar vinculada a
// zero-ou-uma Área e possui colaboradores designados que podem submeter a
// planilha de estoque.
//
// Ciclo de vida: ATIVA -> LIXEIRA (soft delete, reversível) -> removida
// permanentemente (irreversível). Uma lista na lixeira sai das listagens
// padrão, mas suas Submissões e Pedidos continuam válidos como histórico.
type Lista struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	AreaID        string     `json:"area_id,omitempty"`
	Collaborators []string   `json:"collaborators"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Trashed indica se a lista está na lixeira (soft delete).
func (l Lista) Trashed() bool {
	return l.DeletedAt != nil
}

// ListaFilter define os parâmetros de listagem de Listas.
type ListaFilter struct {
	Trashed bool // true lista a lixeira; false lista apenas as ativas
	AreaID  string
}
