package middleware

import (
	"context"
	"net/http"

	"golista/internal/domain"
	apperror "golista/internal/errors"
	"golista/internal/pkg/token"
)

// ContextKey é o tipo usado para chaves de contexto deste pacote.
// Usamos um tipo próprio para garantir que a chave seja única e não haja
// conflito com outras chaves string.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria uma função de middleware que valida um JWT e anexa as claims
// (UserID e Role) ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || len(authHeader) < 7 || authHeader[:7] != "Bearer " {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.").Error(), http.StatusUnauthorized)
				return
			}

			tokenString := authHeader[7:]

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido ou expirado.").Error(), http.StatusUnauthorized)
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{
				UserID: claims.UserID,
				Role:   domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe o acesso às roles informadas. Deve ser
// aplicado depois do AuthMiddleware, que anexa as claims ao contexto.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Tentar extrair as Claims do contexto
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado.").Error(), http.StatusUnauthorized)
				return
			}

			// 2. Verificar Permissão (AuthZ)
			isAuthorized := false
			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					isAuthorized = true
					break
				}
			}

			if !isAuthorized {
				http.Error(w, apperror.NewUnauthorizedError("Acesso negado. Você não tem a permissão necessária.").Error(), http.StatusForbidden) // 403 Forbidden
				return
			}

			// 3. Permissão concedida: Chama o próximo handler
			next.ServeHTTP(w, r)
		}
	}
}
