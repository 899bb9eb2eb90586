package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Papéis do sistema: admins aprovam/rejeitam e gerenciam listas;
// colaboradores preenchem a planilha de estoque e criam listas rápidas.
const (
	RoleAdmin       UserRole = "admin"
	RoleColaborador UserRole = "colaborador"
)

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

// UserService define o contrato de lógica de negócio para a entidade User.
type UserService interface {
	Register(ctx context.Context, registration UserRegistration) (User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}
