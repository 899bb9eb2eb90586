package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"golista/config"
	"golista/internal/pkg/cache"
	"golista/internal/pkg/database"
	"golista/internal/pkg/logger"
	"golista/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"golista/internal/api/estoque"
	"golista/internal/api/lista"
	"golista/internal/api/listarapida"
	"golista/internal/api/router"
	"golista/internal/api/submissao"
	"golista/internal/api/user"
	"golista/internal/repository/estoquerepo"
	"golista/internal/repository/listarapidarepo"
	"golista/internal/repository/listarepo"
	"golista/internal/repository/submissaorepo"
	"golista/internal/repository/userrepo"
	"golista/internal/service/estoqueservice"
	"golista/internal/service/listarapidaservice"
	"golista/internal/service/listaservice"
	"golista/internal/service/submissaoservice"
	"golista/internal/service/userservice"
)

// @title GoLista API
// @version 1.0
// @description Serviço de listas de estoque com derivação de pedidos e fluxo de aprovação.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoLista...")

	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	// Se não existir, seguimos apenas com as variáveis do ambiente (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (URLs, Timeouts, etc.)
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	// O repositório de estoque é compartilhado: submissões e listas dependem
	// dele para aplicar quantidades e invalidar o cache na mesma transação.
	stockRepo := estoquerepo.NewStockRepository(db, cacheClient, cfg.DBTimeout, cfg.EntriesCacheTTL, log)
	listaRepo := listarepo.NewListaRepository(db, stockRepo, cfg.DBTimeout, log)
	submissaoRepo := submissaorepo.NewSubmissaoRepository(db, stockRepo, cfg.DBTimeout, log)
	listaRapidaRepo := listarapidarepo.NewListaRapidaRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	stockSvc := estoqueservice.NewService(stockRepo, log)
	listaSvc := listaservice.NewService(listaRepo, log)
	submissaoSvc := submissaoservice.NewService(submissaoRepo, log)
	listaRapidaSvc := listarapidaservice.NewService(listaRapidaRepo, log)
	userSvc := userservice.NewService(userRepo, tokenSvc)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	estoqueHandler := estoque.NewHandler(stockSvc, log)
	listaHandler := lista.NewHandler(listaSvc, log)
	submissaoHandler := submissao.NewHandler(submissaoSvc, log)
	listaRapidaHandler := listarapida.NewHandler(listaRapidaSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(
		listaHandler,
		estoqueHandler,
		submissaoHandler,
		listaRapidaHandler,
		userHandler,
		tokenSvc,
		cacheClient,
		cfg.RateLimitMaxRequests,
		cfg.RateLimitPeriod,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoLista ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
