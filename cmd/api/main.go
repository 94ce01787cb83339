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
	"github.com/zhouzirui/mingginyu/backend/internal/config"
	"github.com/zhouzirui/mingginyu/backend/internal/handler"
	"github.com/zhouzirui/mingginyu/backend/internal/model/persona"
	"github.com/zhouzirui/mingginyu/backend/internal/service/ai"
	"github.com/zhouzirui/mingginyu/backend/internal/service/chat"
	"github.com/zhouzirui/mingginyu/backend/internal/service/sentiment"
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

	personaStore := persona.NewFileStore(cfg.Persona.Dir)
	log.Printf("loaded %d personas from %s", len(personaStore.List()), cfg.Persona.Dir)

	if !cfg.AI.Enabled() {
		log.Printf("warning: %s credential or model missing, sessions will refuse to start", cfg.AI.Provider)
	}

	// 情感标注是可选的，分类器在第一次使用时才构建
	var annotator *sentiment.Annotator
	if cfg.Sentiment.Enabled {
		annotator = sentiment.NewAnnotator(sentiment.NewBuilder(*cfg))
		log.Printf("sentiment annotation enabled, provider=%s", cfg.Sentiment.Provider)
	} else {
		log.Println("sentiment annotation disabled by configuration")
	}

	chatService := chat.NewService(
		chat.Settings{
			PersonaID: cfg.Persona.DefaultID,
			Model:     cfg.AI.ModelName(),
			APIKey:    cfg.AI.APIKey(),
		},
		chat.Deps{
			Personas:  personaStore,
			Backends:  ai.NewBackendFactory(cfg.AI),
			Annotator: annotator,
		},
	)

	router := handler.NewRouter(personaStore, chatService, cfg.Display.TypingDelay)

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

	log.Printf("mingginyu backend listening on %s", addr)
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
