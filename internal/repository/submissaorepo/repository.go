package submissaorepo

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

// SubmissaoRepository persiste Submissões e seus Pedidos. Todos os efeitos
// multi-linha (criação de pedidos, transições de status, roll-up, revert,
// reconciliação) acontecem dentro de uma única transação por operação: uma
// falha no meio não pode deixar Pedidos e status da Submissão inconsistentes.
type SubmissaoRepository struct {
	DB        *sql.DB
	Stock     *estoquerepo.StockRepository
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSubmissaoRepository cria e retorna uma nova instância do Repositório de Submissões.
func NewSubmissaoRepository(db *sql.DB, stock *estoquerepo.StockRepository, dbTimeout time.Duration, logger logger.Logger) *SubmissaoRepository {
	return &SubmissaoRepository{
		DB:        db,
		Stock:     stock,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const pedidoColumns = `id, submission_id, entry_id, item_name, unit, requested_quantity, status, created_at, updated_at`

// Create aplica as atualizações de quantidade e materializa uma nova Submissão
// PENDENTE com um Pedido por entrada com déficit positivo, tudo na mesma
// transação. Devolve EmptySubmissionError quando nenhuma entrada gera déficit.
func (r *SubmissaoRepository) Create(ctx context.Context, listID, userID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	// 1. A lista precisa existir e estar ativa
	var deletedAt sql.NullTime
	err = tx.QueryRowContext(ctxTimeout, `SELECT deleted_at FROM lists WHERE id = $1 FOR UPDATE`, listID).Scan(&deletedAt)
	if err == sql.ErrNoRows {
		return domain.Submissao{}, errors.NewNotFoundError(fmt.Sprintf("Lista %s não encontrada.", listID))
	}
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar lista", err)
	}
	if deletedAt.Valid {
		return domain.Submissao{}, errors.NewValidationError("Não é possível submeter uma lista que está na lixeira.")
	}

	// 2. Aplicar as quantidades informadas (efeito colateral na fonte de verdade)
	if err := estoquerepo.ApplyQuantityUpdates(ctxTimeout, tx, listID, updates); err != nil {
		return domain.Submissao{}, err
	}

	// 3. Reler as entradas e derivar os pedidos
	entries, err := selectEntries(ctxTimeout, tx, listID)
	if err != nil {
		return domain.Submissao{}, err
	}

	pedidos := domain.BuildPedidos(entries)
	if len(pedidos) == 0 {
		return domain.Submissao{}, errors.NewEmptySubmissionError("Nenhuma entrada está abaixo do mínimo; não há o que pedir.")
	}

	// 4. Criar a Submissão e seus Pedidos
	now := time.Now()
	submissao := domain.Submissao{
		ID:          uuid.NewString(),
		ListID:      listID,
		SubmittedBy: userID,
		SubmittedAt: now,
		Status:      domain.SubmissaoPendente,
		UpdatedAt:   now,
	}

	const submissaoSQL = `
        INSERT INTO submissions (id, list_id, submitted_by, submitted_at, status, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctxTimeout, submissaoSQL,
		submissao.ID, submissao.ListID, submissao.SubmittedBy, submissao.SubmittedAt, submissao.Status, submissao.UpdatedAt,
	); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao inserir submissão", err)
	}

	const pedidoSQL = `
        INSERT INTO orders (` + pedidoColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range pedidos {
		pedidos[i].ID = uuid.NewString()
		pedidos[i].SubmissaoID = submissao.ID
		pedidos[i].CreatedAt = now
		pedidos[i].UpdatedAt = now
		if _, err := tx.ExecContext(ctxTimeout, pedidoSQL,
			pedidos[i].ID, pedidos[i].SubmissaoID, pedidos[i].EntryID,
			pedidos[i].ItemName, pedidos[i].Unit, pedidos[i].RequestedQuantity,
			pedidos[i].Status, pedidos[i].CreatedAt, pedidos[i].UpdatedAt,
		); err != nil {
			return domain.Submissao{}, errors.NewDBError("Falha ao inserir pedido", err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.Stock.InvalidateList(ctxTimeout, listID)
	submissao.Pedidos = pedidos

	r.logger.Info("Submissão criada.", map[string]interface{}{
		"submissao_id": submissao.ID,
		"list_id":      listID,
		"pedidos":      len(pedidos),
	})
	return submissao, nil
}

// FindByID busca uma Submissão com todos os seus Pedidos.
func (r *SubmissaoRepository) FindByID(ctx context.Context, id string) (domain.Submissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.Submissao
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, list_id, submitted_by, submitted_at, status, updated_at FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.ListID, &s.SubmittedBy, &s.SubmittedAt, &s.Status, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Submissao{}, errors.NewNotFoundError(fmt.Sprintf("Submissão %s não encontrada.", id))
	}
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar submissão", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+pedidoColumns+` FROM orders WHERE submission_id = $1 ORDER BY item_name`, id)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar pedidos da submissão", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			return domain.Submissao{}, err
		}
		s.Pedidos = append(s.Pedidos, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iterar pedidos", err)
	}
	return s, nil
}

// FindPedidoByID busca um Pedido individual.
func (r *SubmissaoRepository) FindPedidoByID(ctx context.Context, id string) (domain.Pedido, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var p domain.Pedido
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+pedidoColumns+` FROM orders WHERE id = $1`, id,
	).Scan(&p.ID, &p.SubmissaoID, &p.EntryID, &p.ItemName, &p.Unit, &p.RequestedQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Pedido{}, errors.NewNotFoundError(fmt.Sprintf("Pedido %s não encontrado.", id))
	}
	if err != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao buscar pedido", err)
	}
	return p, nil
}

// TransitionPedido move um único Pedido de PENDENTE para o estado terminal
// informado e recalcula o roll-up da Submissão na mesma transação. Pedidos já
// terminais devolvem InvalidTransitionError.
func (r *SubmissaoRepository) TransitionPedido(ctx context.Context, pedidoID string, to domain.PedidoStatus) (domain.Pedido, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var p domain.Pedido
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT `+pedidoColumns+` FROM orders WHERE id = $1 FOR UPDATE`, pedidoID,
	).Scan(&p.ID, &p.SubmissaoID, &p.EntryID, &p.ItemName, &p.Unit, &p.RequestedQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Pedido{}, errors.NewNotFoundError(fmt.Sprintf("Pedido %s não encontrado.", pedidoID))
	}
	if err != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao buscar pedido para transição", err)
	}

	if p.Status.Terminal() {
		return domain.Pedido{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("O pedido %s já está %s e não pode ir para %s.", pedidoID, p.Status, to))
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctxTimeout,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, to, now, pedidoID); err != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao atualizar status do pedido", err)
	}

	if err := rollUpSubmissao(ctxTimeout, tx, p.SubmissaoID); err != nil {
		return domain.Pedido{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	p.Status = to
	p.UpdatedAt = now
	return p, nil
}

// TransitionPendentes move todos os Pedidos PENDENTE de uma Submissão para o
// estado terminal informado, em uma única operação atômica. Pedidos já
// terminais ficam como estão, o que torna a reinvocação idempotente.
func (r *SubmissaoRepository) TransitionPendentes(ctx context.Context, submissaoID string, to domain.PedidoStatus) (domain.Submissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	if err := lockSubmissao(ctxTimeout, tx, submissaoID); err != nil {
		return domain.Submissao{}, err
	}

	if _, err := tx.ExecContext(ctxTimeout,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE submission_id = $3 AND status = $4`,
		to, time.Now(), submissaoID, domain.PedidoPendente); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao atualizar pedidos pendentes", err)
	}

	if err := rollUpSubmissao(ctxTimeout, tx, submissaoID); err != nil {
		return domain.Submissao{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	return r.FindByID(ctx, submissaoID)
}

// Revert desfaz a decisão de uma Submissão terminal: todos os Pedidos voltam
// para PENDENTE, independentemente do status individual anterior, e a
// Submissão volta para PENDENTE. Só é válido a partir de um estado terminal.
func (r *SubmissaoRepository) Revert(ctx context.Context, submissaoID string) (domain.Submissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var status domain.SubmissaoStatus
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT status FROM submissions WHERE id = $1 FOR UPDATE`, submissaoID).Scan(&status)
	if err == sql.ErrNoRows {
		return domain.Submissao{}, errors.NewNotFoundError(fmt.Sprintf("Submissão %s não encontrada.", submissaoID))
	}
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar submissão para revert", err)
	}

	if !domain.SubmissaoWorkflow.CanRevert(string(status)) {
		return domain.Submissao{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("A submissão %s está %s; só decisões terminais podem ser revertidas.", submissaoID, status))
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctxTimeout,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE submission_id = $3`,
		domain.PedidoPendente, now, submissaoID); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao reverter pedidos", err)
	}
	if _, err := tx.ExecContext(ctxTimeout,
		`UPDATE submissions SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.SubmissaoPendente, now, submissaoID); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao reverter submissão", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Submissão revertida para PENDENTE.", map[string]interface{}{"submissao_id": submissaoID})
	return r.FindByID(ctx, submissaoID)
}

// Reconcile reexecuta a derivação para TODAS as entradas da lista da submissão
// e ajusta o conjunto de Pedidos: entradas com déficit ganham um Pedido
// (reaproveitando a linha existente quando houver), entradas sem déficit têm o
// Pedido removido. Só é legal enquanto a Submissão está PENDENTE. A operação é
// idempotente por construção (ver domain.ReconcilePedidos).
func (r *SubmissaoRepository) Reconcile(ctx context.Context, submissaoID string, updates []domain.QuantityUpdate) (domain.Submissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var listID string
	var status domain.SubmissaoStatus
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT list_id, status FROM submissions WHERE id = $1 FOR UPDATE`, submissaoID).Scan(&listID, &status)
	if err == sql.ErrNoRows {
		return domain.Submissao{}, errors.NewNotFoundError(fmt.Sprintf("Submissão %s não encontrada.", submissaoID))
	}
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar submissão para reedição", err)
	}

	if status != domain.SubmissaoPendente {
		return domain.Submissao{}, errors.NewInvalidTransitionError(
			fmt.Sprintf("A submissão %s está %s; apenas submissões PENDENTE podem ser reeditadas.", submissaoID, status))
	}

	// 1. Aplicar as novas quantidades
	if err := estoquerepo.ApplyQuantityUpdates(ctxTimeout, tx, listID, updates); err != nil {
		return domain.Submissao{}, err
	}

	// 2. Rederivar sobre TODAS as entradas da lista, não só as já pedidas
	entries, err := selectEntries(ctxTimeout, tx, listID)
	if err != nil {
		return domain.Submissao{}, err
	}

	existingRows, err := tx.QueryContext(ctxTimeout,
		`SELECT `+pedidoColumns+` FROM orders WHERE submission_id = $1`, submissaoID)
	if err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao buscar pedidos existentes", err)
	}
	var existing []domain.Pedido
	for existingRows.Next() {
		p, err := scanPedido(existingRows)
		if err != nil {
			existingRows.Close()
			return domain.Submissao{}, err
		}
		existing = append(existing, p)
	}
	existingRows.Close()
	if err := existingRows.Err(); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao iterar pedidos existentes", err)
	}

	upserts, removedIDs := domain.ReconcilePedidos(existing, entries)
	if len(upserts) == 0 {
		return domain.Submissao{}, errors.NewEmptySubmissionError("A reedição zeraria todos os pedidos; nenhuma entrada está abaixo do mínimo.")
	}

	// 3. Persistir o conjunto reconciliado
	now := time.Now()
	for _, p := range upserts {
		if p.ID == "" {
			if _, err := tx.ExecContext(ctxTimeout,
				`INSERT INTO orders (`+pedidoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				uuid.NewString(), submissaoID, p.EntryID, p.ItemName, p.Unit,
				p.RequestedQuantity, p.Status, now, now); err != nil {
				return domain.Submissao{}, errors.NewDBError("Falha ao inserir novo pedido na reedição", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctxTimeout,
			`UPDATE orders SET requested_quantity = $1, item_name = $2, unit = $3, status = $4, updated_at = $5 WHERE id = $6`,
			p.RequestedQuantity, p.ItemName, p.Unit, domain.PedidoPendente, now, p.ID); err != nil {
			return domain.Submissao{}, errors.NewDBError("Falha ao atualizar pedido na reedição", err)
		}
	}
	for _, id := range removedIDs {
		if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM orders WHERE id = $1`, id); err != nil {
			return domain.Submissao{}, errors.NewDBError("Falha ao remover pedido sem déficit", err)
		}
	}

	if _, err := tx.ExecContext(ctxTimeout,
		`UPDATE submissions SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.SubmissaoPendente, now, submissaoID); err != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao atualizar submissão na reedição", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return domain.Submissao{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.Stock.InvalidateList(ctxTimeout, listID)
	r.logger.Info("Submissão reeditada.", map[string]interface{}{
		"submissao_id": submissaoID,
		"pedidos":      len(upserts),
		"removidos":    len(removedIDs),
	})
	return r.FindByID(ctx, submissaoID)
}

// --- Auxiliares internos de transação ---

func lockSubmissao(ctx context.Context, tx *sql.Tx, submissaoID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM submissions WHERE id = $1 FOR UPDATE`, submissaoID).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("Submissão %s não encontrada.", submissaoID))
	}
	if err != nil {
		return errors.NewDBError("Falha ao bloquear submissão", err)
	}
	return nil
}

// rollUpSubmissao recalcula o status agregado da Submissão a partir dos status
// atuais dos seus Pedidos, usando a regra única em domain.RollUpStatus.
func rollUpSubmissao(ctx context.Context, tx *sql.Tx, submissaoID string) error {
	rows, err := tx.QueryContext(ctx, `SELECT status FROM orders WHERE submission_id = $1`, submissaoID)
	if err != nil {
		return errors.NewDBError("Falha ao buscar status dos pedidos", err)
	}
	var pedidos []domain.Pedido
	for rows.Next() {
		var p domain.Pedido
		if err := rows.Scan(&p.Status); err != nil {
			rows.Close()
			return errors.NewDBError("Falha ao mapear status de pedido", err)
		}
		pedidos = append(pedidos, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.NewDBError("Falha ao iterar status dos pedidos", err)
	}

	status := domain.RollUpStatus(pedidos)
	if _, err := tx.ExecContext(ctx,
		`UPDATE submissions SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), submissaoID); err != nil {
		return errors.NewDBError("Falha ao atualizar roll-up da submissão", err)
	}
	return nil
}

func selectEntries(ctx context.Context, tx *sql.Tx, listID string) ([]domain.StockEntry, error) {
	rows, err := tx.QueryContext(ctx, `
        SELECT id, list_id, item_name, unit, current_quantity, minimum_quantity, version, created_at, updated_at
        FROM stock_entries
        WHERE list_id = $1
        ORDER BY item_name`, listID)
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar entradas da lista", err)
	}
	defer rows.Close()

	var entries []domain.StockEntry
	for rows.Next() {
		var e domain.StockEntry
		if err := rows.Scan(&e.ID, &e.ListID, &e.ItemName, &e.Unit, &e.CurrentQuantity, &e.MinimumQuantity, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear entrada da lista", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar entradas da lista", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPedido(row rowScanner) (domain.Pedido, error) {
	var p domain.Pedido
	if err := row.Scan(&p.ID, &p.SubmissaoID, &p.EntryID, &p.ItemName, &p.Unit, &p.RequestedQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Pedido{}, errors.NewDBError("Falha ao mapear pedido", err)
	}
	return p, nil
}
