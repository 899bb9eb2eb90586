package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	// Driver pq para PostgreSQL
	_ "github.com/lib/pq"
)

// NewPostgresDB inicializa e configura o pool de conexões com o PostgreSQL.
// Retorna a conexão *sql.DB pronta para uso.
func NewPostgresDB(dataSourceName string) (*sql.DB, error) {

	// 1. Abrir a Conexão
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	// 2. Testar a Conexão Imediatamente
	// Garante que as credenciais e o servidor estão corretos
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// 3. Configuração do Connection Pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	// ConnMaxLifetime: evita conexões zumbis atrás de firewalls/NAT.
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	log.Println("✅ Pool de Conexões PostgreSQL configurado e pronto.")

	return db, nil
}
