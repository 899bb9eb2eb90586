package listarepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"golista/internal/domain"
	"golista/internal/errors"
	"golista/internal/pkg/logger"
	"golista/internal/repository/estoquerepo"
)

// ListaRepository persiste as Listas e seu ciclo de vida:
// ATIVA -> LIXEIRA (soft delete) -> restaurada, ou LIXEIRA -> removida
// permanentemente. A remoção permanente apaga as entradas de estoque da lista,
// mas NUNCA toca em Submissões e Pedidos já criados (histórico de auditoria).
type ListaRepository struct {
	DB        *sql.DB
	Stock     *estoquerepo.StockRepository
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewListaRepository cria e retorna uma nova instância do Repositório de Listas.
func NewListaRepository(db *sql.DB, stock *estoquerepo.StockRepository, dbTimeout time.Duration, logger logger.Logger) *ListaRepository {
	return &ListaRepository{
		DB:        db,
		Stock:     stock,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Create persiste uma nova Lista com seus colaboradores designados.
func (r *ListaRepository) Create(ctx context.Context, lista domain.Lista) (domain.Lista, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	lista.ID = uuid.NewString()
	lista.CreatedAt = time.Now()
	lista.UpdatedAt = lista.CreatedAt

	var areaID interface{}
	if lista.AreaID != "" {
		areaID = lista.AreaID
	}

	const listaSQL = `
        INSERT INTO lists (id, name, area_id, deleted_at, created_at, updated_at)
        VALUES ($1, $2, $3, NULL, $4, $5)`
	if _, err := tx.ExecContext(ctxTimeout, listaSQL,
		lista.ID, lista.Name, areaID, lista.CreatedAt, lista.UpdatedAt); err != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao inserir lista", err)
	}

	const collabSQL = `INSERT INTO list_collaborators (list_id, user_id) VALUES ($1, $2)`
	for _, userID := range lista.Collaborators {
		if _, err := tx.ExecContext(ctxTimeout, collabSQL, lista.ID, userID); err != nil {
			return domain.Lista{}, errors.NewDBError("Falha ao inserir colaborador da lista", err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Lista criada.", map[string]interface{}{"list_id": lista.ID, "name": lista.Name})
	return lista, nil
}

// FindByID busca uma Lista pelo ID, incluindo os colaboradores.
func (r *ListaRepository) FindByID(ctx context.Context, id string) (domain.Lista, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var l domain.Lista
	var areaID sql.NullString
	var deletedAt sql.NullTime
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, name, area_id, deleted_at, created_at, updated_at FROM lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &areaID, &deletedAt, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Lista{}, errors.NewNotFoundError(fmt.Sprintf("Lista %s não encontrada.", id))
	}
	if err != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao buscar lista", err)
	}
	if areaID.Valid {
		l.AreaID = areaID.String
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		l.DeletedAt = &t
	}

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT user_id FROM list_collaborators WHERE list_id = $1`, id)
	if err != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao buscar colaboradores da lista", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return domain.Lista{}, errors.NewDBError("Falha ao mapear colaborador", err)
		}
		l.Collaborators = append(l.Collaborators, userID)
	}
	if err := rows.Err(); err != nil {
		return domain.Lista{}, errors.NewDBError("Falha ao iterar colaboradores", err)
	}
	return l, nil
}

// FindAll lista as Listas ativas ou, com filter.Trashed, o conteúdo da lixeira.
func (r *ListaRepository) FindAll(ctx context.Context, filter domain.ListaFilter) ([]domain.Lista, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, name, area_id, deleted_at, created_at, updated_at FROM lists WHERE deleted_at IS NULL`
	if filter.Trashed {
		query = `SELECT id, name, area_id, deleted_at, created_at, updated_at FROM lists WHERE deleted_at IS NOT NULL`
	}
	args := []interface{}{}
	if filter.AreaID != "" {
		query += ` AND area_id = $1`
		args = append(args, filter.AreaID)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar listas", err)
	}
	defer rows.Close()

	var listas []domain.Lista
	for rows.Next() {
		var l domain.Lista
		var areaID sql.NullString
		var deletedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &areaID, &deletedAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear lista", err)
		}
		if areaID.Valid {
			l.AreaID = areaID.String
		}
		if deletedAt.Valid {
			t := deletedAt.Time
			l.DeletedAt = &t
		}
		listas = append(listas, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar listas", err)
	}
	return listas, nil
}

// SoftDelete move uma lista ativa para a lixeira. Falha com NotFoundError se
// a lista não existe ou já está na lixeira.
func (r *ListaRepository) SoftDelete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE lists SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return errors.NewDBError("Falha ao mover lista para a lixeira", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Lista ativa %s não encontrada.", id))
	}

	r.logger.Info("Lista movida para a lixeira.", map[string]interface{}{"list_id": id})
	return nil
}

// Restore devolve uma lista da lixeira para o estado ativo.
func (r *ListaRepository) Restore(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE lists SET deleted_at = NULL, updated_at = $1 WHERE id = $2 AND deleted_at IS NOT NULL`,
		time.Now(), id)
	if err != nil {
		return errors.NewDBError("Falha ao restaurar lista", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Lista %s não está na lixeira.", id))
	}

	r.logger.Info("Lista restaurada da lixeira.", map[string]interface{}{"list_id": id})
	return nil
}

// PermanentDelete remove uma lista da lixeira de forma irreversível,
// apagando também suas entradas de estoque. Submissões e Pedidos que
// referenciam a lista permanecem intactos como histórico.
func (r *ListaRepository) PermanentDelete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var deletedAt sql.NullTime
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT deleted_at FROM lists WHERE id = $1 FOR UPDATE`, id).Scan(&deletedAt)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("Lista %s não encontrada.", id))
	}
	if err != nil {
		return errors.NewDBError("Falha ao buscar lista para remoção", err)
	}
	if !deletedAt.Valid {
		return errors.NewInvalidTransitionError(
			fmt.Sprintf("A lista %s está ativa; apenas listas na lixeira podem ser removidas permanentemente.", id))
	}

	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM list_collaborators WHERE list_id = $1`, id); err != nil {
		return errors.NewDBError("Falha ao remover colaboradores da lista", err)
	}
	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM stock_entries WHERE list_id = $1`, id); err != nil {
		return errors.NewDBError("Falha ao remover entradas de estoque da lista", err)
	}
	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM lists WHERE id = $1`, id); err != nil {
		return errors.NewDBError("Falha ao remover lista", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.Stock.InvalidateList(ctxTimeout, id)
	r.logger.Info("Lista removida permanentemente.", map[string]interface{}{"list_id": id})
	return nil
}
