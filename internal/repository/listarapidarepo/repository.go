package listarapidarepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"golista/internal/domain"
	"golista/internal/errors"
	"golista/internal/pkg/logger"
)

// ListaRapidaRepository persiste as Listas Rápidas e seus itens. As guardas de
// estado (itens só em rascunho, decisão só em pendente, revert só de terminal)
// são verificadas dentro da transação, com a linha da lista bloqueada.
type ListaRapidaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewListaRapidaRepository cria e retorna uma nova instância do Repositório de Listas Rápidas.
func NewListaRapidaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ListaRapidaRepository {
	return &ListaRapidaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Create persiste uma nova Lista Rápida em rascunho, com os itens iniciais.
func (r *ListaRapidaRepository) Create(ctx context.Context, lista domain.ListaRapida) (domain.ListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	now := time.Now()
	lista.ID = uuid.NewString()
	lista.Status = domain.ListaRapidaRascunho
	lista.CreatedAt = now
	lista.UpdatedAt = now

	const listaSQL = `
        INSERT INTO quick_lists (id, created_by, status, admin_message, created_at, updated_at)
        VALUES ($1, $2, $3, '', $4, $5)`
	if _, err := tx.ExecContext(ctxTimeout, listaSQL,
		lista.ID, lista.CreatedBy, lista.Status, lista.CreatedAt, lista.UpdatedAt); err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao inserir lista rápida", err)
	}

	const itemSQL = `
        INSERT INTO quick_list_items (id, quick_list_id, item_name, priority, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range lista.Items {
		lista.Items[i].ID = uuid.NewString()
		lista.Items[i].ListaRapidaID = lista.ID
		lista.Items[i].CreatedAt = now
		if _, err := tx.ExecContext(ctxTimeout, itemSQL,
			lista.Items[i].ID, lista.ID, lista.Items[i].ItemName,
			lista.Items[i].Priority, lista.Items[i].Note, now); err != nil {
			return domain.ListaRapida{}, errors.NewDBError("Falha ao inserir item da lista rápida", err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Lista rápida criada.", map[string]interface{}{"lista_rapida_id": lista.ID, "itens": len(lista.Items)})
	return lista, nil
}

// FindByID busca uma Lista Rápida com todos os seus itens.
func (r *ListaRapidaRepository) FindByID(ctx context.Context, id string) (domain.ListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var l domain.ListaRapida
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, created_by, status, admin_message, created_at, updated_at FROM quick_lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.CreatedBy, &l.Status, &l.AdminMessage, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.ListaRapida{}, errors.NewNotFoundError(fmt.Sprintf("Lista rápida %s não encontrada.", id))
	}
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao buscar lista rápida", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT id, quick_list_id, item_name, priority, note, created_at FROM quick_list_items WHERE quick_list_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao buscar itens da lista rápida", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.ItemListaRapida
		if err := rows.Scan(&it.ID, &it.ListaRapidaID, &it.ItemName, &it.Priority, &it.Note, &it.CreatedAt); err != nil {
			return domain.ListaRapida{}, errors.NewDBError("Falha ao mapear item da lista rápida", err)
		}
		l.Items = append(l.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao iterar itens", err)
	}
	return l, nil
}

// AddItem adiciona um item a uma Lista Rápida ainda em rascunho.
func (r *ListaRapidaRepository) AddItem(ctx context.Context, listaID string, item domain.ItemListaRapida) (domain.ItemListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.ItemListaRapida{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	if err := lockRascunho(ctxTimeout, tx, listaID); err != nil {
		return domain.ItemListaRapida{}, err
	}

	item.ID = uuid.NewString()
	item.ListaRapidaID = listaID
	item.CreatedAt = time.Now()

	if _, err := tx.ExecContext(ctxTimeout,
		`INSERT INTO quick_list_items (id, quick_list_id, item_name, priority, note, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, listaID, item.ItemName, item.Priority, item.Note, item.CreatedAt); err != nil {
		return domain.ItemListaRapida{}, errors.NewDBError("Falha ao inserir item", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.ItemListaRapida{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}
	return item, nil
}

// UpdateItem edita um item de uma Lista Rápida ainda em rascunho.
func (r *ListaRapidaRepository) UpdateItem(ctx context.Context, listaID string, item domain.ItemListaRapida) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	if err := lockRascunho(ctxTimeout, tx, listaID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctxTimeout,
		`UPDATE quick_list_items SET item_name = $1, priority = $2, note = $3 WHERE id = $4 AND quick_list_id = $5`,
		item.ItemName, item.Priority, item.Note, item.ID, listaID)
	if err != nil {
		return errors.NewDBError("Falha ao atualizar item", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Item %s não encontrado na lista rápida %s.", item.ID, listaID))
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return errors.NewDBError("Falha ao commitar transação", commitErr)
	}
	return nil
}

// RemoveItem remove um item de uma Lista Rápida ainda em rascunho.
func (r *ListaRapidaRepository) RemoveItem(ctx context.Context, listaID, itemID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	if err := lockRascunho(ctxTimeout, tx, listaID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctxTimeout,
		`DELETE FROM quick_list_items WHERE id = $1 AND quick_list_id = $2`, itemID, listaID)
	if err != nil {
		return errors.NewDBError("Falha ao remover item", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Item %s não encontrado na lista rápida %s.", itemID, listaID))
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return errors.NewDBError("Falha ao commitar transação", commitErr)
	}
	return nil
}

// Submeter move a lista de rascunho para pendente. Falha com ValidationError
// se a lista está vazia (não há o que o admin avaliar).
func (r *ListaRapidaRepository) Submeter(ctx context.Context, id string) (domain.ListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	status, err := lockStatus(ctxTimeout, tx, id)
	if err != nil {
		return domain.ListaRapida{}, err
	}
	if !domain.ListaRapidaWorkflow.CanSubmit(string(status)) {
		return domain.ListaRapida{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("A lista rápida %s está %s; apenas rascunhos podem ser submetidos.", id, status))
	}

	var itemCount int
	if err := tx.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM quick_list_items WHERE quick_list_id = $1`, id).Scan(&itemCount); err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao contar itens", err)
	}
	if itemCount == 0 {
		return domain.ListaRapida{}, errors.NewValidationError("A lista rápida não tem itens; adicione ao menos um antes de submeter.")
	}

	if err := setStatus(ctxTimeout, tx, id, domain.ListaRapidaPendente, ""); err != nil {
		return domain.ListaRapida{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Lista rápida submetida.", map[string]interface{}{"lista_rapida_id": id, "itens": itemCount})
	return r.FindByID(ctx, id)
}

// Decide move a lista de pendente para um estado terminal (aprovada/rejeitada),
// registrando a mensagem do admin.
func (r *ListaRapidaRepository) Decide(ctx context.Context, id string, to domain.ListaRapidaStatus, adminMessage string) (domain.ListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	status, err := lockStatus(ctxTimeout, tx, id)
	if err != nil {
		return domain.ListaRapida{}, err
	}
	if !domain.ListaRapidaWorkflow.CanDecide(string(status)) {
		return domain.ListaRapida{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("A lista rápida %s está %s; apenas listas pendentes recebem decisão.", id, status))
	}

	if err := setStatus(ctxTimeout, tx, id, to, adminMessage); err != nil {
		return domain.ListaRapida{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Lista rápida decidida.", map[string]interface{}{"lista_rapida_id": id, "status": to})
	return r.FindByID(ctx, id)
}

// Reverter desfaz uma decisão terminal, voltando a lista para pendente com o
// conjunto de itens inalterado.
func (r *ListaRapidaRepository) Reverter(ctx context.Context, id string) (domain.ListaRapida, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	status, err := lockStatus(ctxTimeout, tx, id)
	if err != nil {
		return domain.ListaRapida{}, err
	}
	if !domain.ListaRapidaWorkflow.CanRevert(string(status)) {
		return domain.ListaRapida{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("A lista rápida %s está %s; apenas decisões terminais podem ser revertidas.", id, status))
	}

	if err := setStatus(ctxTimeout, tx, id, domain.ListaRapidaPendente, ""); err != nil {
		return domain.ListaRapida{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.ListaRapida{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Lista rápida revertida para pendente.", map[string]interface{}{"lista_rapida_id": id})
	return r.FindByID(ctx, id)
}

// --- Auxiliares internos de transação ---

func lockStatus(ctx context.Context, tx *sql.Tx, id string) (domain.ListaRapidaStatus, error) {
	var status domain.ListaRapidaStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM quick_lists WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError(fmt.Sprintf("Lista rápida %s não encontrada.", id))
	}
	if err != nil {
		return "", errors.NewDBError("Falha ao bloquear lista rápida", err)
	}
	return status, nil
}

func lockRascunho(ctx context.Context, tx *sql.Tx, id string) error {
	status, err := lockStatus(ctx, tx, id)
	if err != nil {
		return err
	}
	if status != domain.ListaRapidaRascunho {
		return errors.NewInvalidTransitionError(
			fmt.Sprintf("A lista rápida %s está %s; itens só podem ser alterados em rascunho.", id, status))
	}
	return nil
}

func setStatus(ctx context.Context, tx *sql.Tx, id string, to domain.ListaRapidaStatus, adminMessage string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE quick_lists SET status = $1, admin_message = $2, updated_at = $3 WHERE id = $4`,
		to, adminMessage, time.Now(), id); err != nil {
		return errors.NewDBError("Falha ao atualizar status da lista rápida", err)
	}
	return nil
}
