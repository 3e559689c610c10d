package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lindenmoor/teahouse/backend/internal/config"
	"github.com/lindenmoor/teahouse/backend/internal/handler"
	"github.com/lindenmoor/teahouse/backend/internal/llm"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
	"github.com/lindenmoor/teahouse/backend/internal/service/recommend"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	products, err := catalog.Load()
	if err != nil {
		log.Fatalf("failed to load product catalog: %v", err)
	}
	productStore := catalog.NewMemoryStore(products)
	log.Printf("loaded %d catalog products", len(products))

	store := memory.NewStore(
		memory.WithMaxMessages(cfg.Memory.MaxMessages),
		memory.WithTTL(cfg.Memory.TTL),
		memory.WithSweepInterval(cfg.Memory.SweepInterval),
	)
	store.StartSweeper(ctx)

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	})
	if client.Enabled() {
		log.Printf("completion client ready, model=%s", cfg.LLM.Model)
	} else {
		log.Println("GROQ_API_KEY not configured; chat turns will fail and recommendations use the fallback scorer")
	}

	advisorSvc := advisor.NewService(store, client, cfg.LLM.MaxTokens)
	engine := recommend.NewEngine(client)

	router := handler.NewRouter(productStore, store, advisorSvc, engine)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Lindenmoor teahouse backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
