package estoquerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"golista/internal/domain"
	"golista/internal/errors"
	"golista/internal/pkg/cache"
	"golista/internal/pkg/logger"
)

// Chave de cache da planilha de estoque, por lista.
const entriesCacheKey = "entries:%s"

// StockRepository é a fonte única de verdade para as quantidades "atuais" de
// estoque. Pedidos congelam uma cópia na submissão e nunca são religados a
// mudanças posteriores destas entradas.
type StockRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// FindByList busca todas as entradas de estoque de uma lista, utilizando a
// estratégia Cache-Aside. A quantidade derivada NÃO é cacheada: o serviço a
// recalcula em toda leitura.
func (r *StockRepository) FindByList(ctx context.Context, listID string) ([]domain.StockEntry, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(entriesCacheKey, listID)

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var entries []domain.StockEntry
		if json.Unmarshal([]byte(cachedData), &entries) == nil {
			return entries, nil
		}
		// Desserialização falhou: segue para o DB
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler planilha de estoque do cache. Indo direto ao DB.", map[string]interface{}{"list_id": listID, "error": err.Error()})
	}

	// 2. Verificar que a lista existe
	var deletedAt sql.NullTime
	err = r.DB.QueryRowContext(ctxTimeout, `SELECT deleted_at FROM lists WHERE id = $1`, listID).Scan(&deletedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Lista %s não encontrada.", listID))
	}
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar lista", err)
	}

	// 3. Busca no Banco de Dados (PostgreSQL)
	query := `
        SELECT id, list_id, item_name, unit, current_quantity, minimum_quantity, version, created_at, updated_at
        FROM stock_entries
        WHERE list_id = $1
        ORDER BY item_name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, listID)
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar entradas de estoque", err)
	}
	defer rows.Close()

	var entries []domain.StockEntry
	for rows.Next() {
		var e domain.StockEntry
		if err := rows.Scan(&e.ID, &e.ListID, &e.ItemName, &e.Unit, &e.CurrentQuantity, &e.MinimumQuantity, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear entrada de estoque", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar entradas de estoque", err)
	}

	// 4. Popular o cache para futuras leituras
	if entriesJSON, marshalErr := json.Marshal(entries); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, entriesJSON, r.CacheTTL)
	}

	return entries, nil
}

// Save persiste uma nova entrada de estoque (item anexado a uma lista por um admin).
func (r *StockRepository) Save(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	entry.ID = uuid.NewString()
	entry.Version = 1
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt

	const insertSQL = `
        INSERT INTO stock_entries (id, list_id, item_name, unit, current_quantity, minimum_quantity, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		entry.ID, entry.ListID, entry.ItemName, entry.Unit,
		entry.CurrentQuantity, entry.MinimumQuantity, entry.Version,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir entrada de estoque no DB.", err)
		return domain.StockEntry{}, errors.NewDBError("Falha ao inserir entrada de estoque", err)
	}

	r.invalidate(ctxTimeout, entry.ListID)
	return entry, nil
}

// UpdateQuantities aplica uma atualização parcial em lote às quantidades
// atuais de uma lista, tudo em uma única transação. Cada entrada usa Controle
// de Concorrência Otimista (OCC) via coluna version; uma escrita obsoleta
// devolve ConflictError e nada é aplicado.
func (r *StockRepository) UpdateQuantities(ctx context.Context, listID string, updates []domain.QuantityUpdate) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	if err := ApplyQuantityUpdates(ctxTimeout, tx, listID, updates); err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.invalidate(ctxTimeout, listID)
	r.logger.Info("Quantidades de estoque atualizadas.", map[string]interface{}{"list_id": listID, "count": len(updates)})
	return nil
}

// InvalidateList remove a planilha de uma lista do cache. Exportado para que
// operações de outros repositórios que mexem nas entradas (submissão,
// remoção permanente de lista) mantenham o cache coerente.
func (r *StockRepository) InvalidateList(ctx context.Context, listID string) {
	r.invalidate(ctx, listID)
}

func (r *StockRepository) invalidate(ctx context.Context, listID string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(entriesCacheKey, listID)); err != nil {
		r.logger.Warn("Falha ao invalidar cache da planilha.", map[string]interface{}{"list_id": listID, "error": err.Error()})
	}
}

// ApplyQuantityUpdates executa as atualizações de quantidade dentro de uma
// transação já aberta. É compartilhado com o repositório de submissões, que
// precisa aplicar as quantidades e materializar os pedidos na mesma transação.
func ApplyQuantityUpdates(ctx context.Context, tx *sql.Tx, listID string, updates []domain.QuantityUpdate) error {
	const updateSQL = `
        UPDATE stock_entries
        SET current_quantity = $1, version = version + 1, updated_at = $2
        WHERE id = $3 AND list_id = $4 AND version = $5`

	for _, u := range updates {
		result, err := tx.ExecContext(ctx, updateSQL, u.CurrentQuantity, time.Now(), u.EntryID, listID, u.Version)
		if err != nil {
			return errors.NewDBError("Falha ao atualizar quantidade de estoque", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected > 0 {
			continue
		}

		// Nenhuma linha afetada: ou a entrada não pertence à lista alvo, ou a
		// versão está desatualizada (OCC).
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM stock_entries WHERE id = $1 AND list_id = $2)`,
			u.EntryID, listID,
		).Scan(&exists)
		if err != nil {
			return errors.NewDBError("Falha ao verificar entrada de estoque", err)
		}
		if !exists {
			return errors.NewValidationError(fmt.Sprintf("A entrada %s não pertence à lista %s.", u.EntryID, listID))
		}
		return errors.NewConflictError(fmt.Sprintf("A entrada %s foi modificada por outra operação. Recarregue e tente novamente.", u.EntryID))
	}
	return nil
}
