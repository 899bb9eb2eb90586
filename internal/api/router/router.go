package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"golista/internal/api/estoque"
	"golista/internal/api/lista"
	"golista/internal/api/listarapida"
	"golista/internal/api/submissao"
	"golista/internal/api/user"
	"golista/internal/domain"
	"golista/internal/pkg/cache"
	"golista/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
//
// Regras de acesso: rotas de leitura exigem apenas autenticação; a gestão do
// ciclo de vida das listas e todas as decisões de aprovação são exclusivas
// do admin.
func NewRouter(
	listaHandler *lista.Handler,
	estoqueHandler *estoque.Handler,
	submissaoHandler *submissao.Handler,
	listaRapidaHandler *listarapida.Handler,
	userHandler *user.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	rateLimitMax int,
	rateLimitPeriod time.Duration,
) http.Handler {

	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}

	// --- 1. Rotas públicas ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.HandleFunc("POST /v1/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("POST /v1/login", userHandler.LoginUserHandler)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 2. Listas (v1) ---
	mux.HandleFunc("GET /v1/lists", auth(listaHandler.GetListasHandler))
	mux.HandleFunc("GET /v1/lists/{id}", auth(listaHandler.GetListaByIDHandler))
	mux.HandleFunc("POST /v1/lists", adminOnly(listaHandler.CreateListaHandler))
	mux.HandleFunc("DELETE /v1/lists/{id}", adminOnly(listaHandler.SoftDeleteListaHandler))
	mux.HandleFunc("POST /v1/lists/{id}/restore", adminOnly(listaHandler.RestoreListaHandler))
	mux.HandleFunc("DELETE /v1/lists/{id}/permanent", adminOnly(listaHandler.PermanentDeleteListaHandler))
	mux.HandleFunc("POST /v1/lists/permanent-delete-batch", adminOnly(listaHandler.PermanentDeleteBatchHandler))

	// --- 3. Planilha de estoque (v1) ---
	mux.HandleFunc("GET /v1/lists/{id}/entries", auth(estoqueHandler.GetEntriesHandler))
	mux.HandleFunc("POST /v1/lists/{id}/entries", auth(estoqueHandler.CreateEntryHandler))
	mux.HandleFunc("PUT /v1/lists/{id}/entries/quantities", auth(estoqueHandler.UpdateQuantitiesHandler))

	// --- 4. Submissões e Pedidos (v1) ---
	mux.HandleFunc("POST /v1/lists/{id}/submit", auth(submissaoHandler.SubmitHandler))
	mux.HandleFunc("GET /v1/submissions/{id}", auth(submissaoHandler.GetSubmissaoHandler))
	mux.HandleFunc("POST /v1/submissions/{id}/approve", adminOnly(submissaoHandler.ApproveSubmissaoHandler))
	mux.HandleFunc("POST /v1/submissions/{id}/reject", adminOnly(submissaoHandler.RejectSubmissaoHandler))
	mux.HandleFunc("POST /v1/submissions/{id}/revert", adminOnly(submissaoHandler.RevertSubmissaoHandler))
	mux.HandleFunc("POST /v1/submissions/{id}/resubmit", auth(submissaoHandler.ResubmitHandler))
	mux.HandleFunc("GET /v1/orders/{id}", auth(submissaoHandler.GetPedidoHandler))
	mux.HandleFunc("POST /v1/orders/{id}/approve", adminOnly(submissaoHandler.ApproveOrderHandler))
	mux.HandleFunc("POST /v1/orders/{id}/reject", adminOnly(submissaoHandler.RejectOrderHandler))
	mux.HandleFunc("POST /v1/orders/approve-batch", adminOnly(submissaoHandler.ApproveBatchHandler))
	mux.HandleFunc("POST /v1/orders/reject-batch", adminOnly(submissaoHandler.RejectBatchHandler))

	// --- 5. Listas Rápidas (v1) ---
	mux.HandleFunc("POST /v1/quick-lists", auth(listaRapidaHandler.CreateHandler))
	mux.HandleFunc("GET /v1/quick-lists/{id}", auth(listaRapidaHandler.GetByIDHandler))
	mux.HandleFunc("POST /v1/quick-lists/{id}/items", auth(listaRapidaHandler.AddItemHandler))
	mux.HandleFunc("PUT /v1/quick-lists/{id}/items/{itemID}", auth(listaRapidaHandler.UpdateItemHandler))
	mux.HandleFunc("DELETE /v1/quick-lists/{id}/items/{itemID}", auth(listaRapidaHandler.RemoveItemHandler))
	mux.HandleFunc("POST /v1/quick-lists/{id}/submit", auth(listaRapidaHandler.SubmeterHandler))
	mux.HandleFunc("POST /v1/quick-lists/{id}/approve", adminOnly(listaRapidaHandler.AprovarHandler))
	mux.HandleFunc("POST /v1/quick-lists/{id}/reject", adminOnly(listaRapidaHandler.RejeitarHandler))
	mux.HandleFunc("POST /v1/quick-lists/{id}/revert", adminOnly(listaRapidaHandler.ReverterHandler))

	// --- 6. Middlewares globais ---
	return middleware.RateLimiter(cacheClient, rateLimitMax, rateLimitPeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
