// Package bootstrap wires configuration, infrastructure, and usecases into
// a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpadapter "github.com/NikithaKunapareddy/AI-Rag-Agent/internal/adapters/http"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/config"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/domain"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/ports"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/core/usecase"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/chunking"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/extractor"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/llm/gemini"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/llm/ollama"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/queue/nats"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/repository/postgres"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/resilience"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/storage/localfs"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/vector/memindex"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/webpage"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/infrastructure/websearch/serper"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/observability/logging"
	"github.com/NikithaKunapareddy/AI-Rag-Agent/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Log    *slog.Logger

	QueryUC    ports.QueryService
	IngestUC   ports.DocumentIngestor
	SessionsUC ports.SessionService

	serverMetrics *metrics.HTTPServerMetrics
	closeFn       func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logging.NewJSONLogger("ai-rag-agent", cfg.LogLevel)
	slog.SetDefault(log)

	serverMetrics := metrics.NewHTTPServerMetrics("api")

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewConversationStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init event queue: %w", err)
	}

	exec := resilience.NewExecutor(resilience.LLMConfig())
	embedder := ollama.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel)
	generator := gemini.NewClient(cfg.GeminiURL, cfg.GeminiAPIKey, cfg.GeminiModel, exec)
	searcher := serper.NewClient(cfg.SerperURL, cfg.SerperAPIKey, exec)
	pages := webpage.NewFetcher()
	extract := extractor.New()
	chunker := chunking.NewSplitter(cfg.ChunkMaxChars, cfg.ChunkMinParagraphChars, cfg.ChunkMinChars, cfg.ChunkMaxCount)

	index := &instrumentedIndex{Store: memindex.NewStore(), metrics: serverMetrics}
	retriever := usecase.NewRetriever(embedder, index, cfg.RetrieveTopK, float32(cfg.RetrieveMinScore))

	queryUC := usecase.NewQueryUsecase(
		store,
		index,
		retriever,
		generator,
		searcher,
		pages,
		serverMetrics.QueryRecorder("api"),
		log,
		usecase.QueryOptions{
			HistoryMaxPairs: cfg.HistoryMaxPairs,
			SearchResults:   cfg.SearchResults,
			SearchTimeout:   time.Duration(cfg.SearchTimeoutSecs) * time.Second,
			FetchTimeout:    time.Duration(cfg.FetchTimeoutSecs) * time.Second,
			GenerateTimeout: time.Duration(cfg.GenerateTimeoutSecs) * time.Second,
			MaxAnswerTokens: cfg.MaxAnswerTokens,
		},
	)
	ingestUC := usecase.NewIngestUsecase(storage, extract, chunker, embedder, index, store, queue, log)
	sessionsUC := usecase.NewSessionUsecase(store, index)

	return &App{
		Config: cfg,
		Log:    log,

		QueryUC:    queryUC,
		IngestUC:   ingestUC,
		SessionsUC: sessionsUC,

		serverMetrics: serverMetrics,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// Handler builds the full HTTP surface with traffic control from config.
func (a *App) Handler() http.Handler {
	router := httpadapter.NewRouter(a.QueryUC, a.IngestUC, a.SessionsUC, a.serverMetrics, httpadapter.TrafficConfig{
		RateLimitRPS:  a.Config.APIRateLimitRPS,
		RateBurst:     a.Config.APIRateBurst,
		MaxConcurrent: a.Config.APIMaxConcurrent,
	})
	return router.Handler()
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// instrumentedIndex counts corpus rebuilds without the index knowing about
// Prometheus.
type instrumentedIndex struct {
	*memindex.Store
	metrics *metrics.HTTPServerMetrics
}

func (i *instrumentedIndex) Rebuild(sessionID string, chunks []domain.Chunk, vectors [][]float32) error {
	if err := i.Store.Rebuild(sessionID, chunks, vectors); err != nil {
		return err
	}
	i.metrics.RecordIndexRebuild("api", len(chunks))
	return nil
}
