package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/autoapply/internal/assembly"
	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/config"
	"github.com/jonathan/autoapply/internal/db"
	"github.com/jonathan/autoapply/internal/export"
	"github.com/jonathan/autoapply/internal/llm"
	"github.com/jonathan/autoapply/internal/notify"
	"github.com/jonathan/autoapply/internal/optimize"
	"github.com/jonathan/autoapply/internal/storage"
	"github.com/jonathan/autoapply/internal/submission"
	"github.com/jonathan/autoapply/internal/suitability"
)

// loadConfig reads the --config file, if any, merged with defaults and the
// environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

// app holds the services shared by serve and apply.
type app struct {
	db         *db.DB
	llm        llm.Client
	notifier   notify.Notifier
	artifacts  storage.ObjectStore // nil unless artifacts go to S3
	autoApply  *autoapply.Orchestrator
	reconciler *billing.Reconciler
}

// Close releases the LLM client and the database pool.
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			log.Printf("[main] Warning: failed to close LLM client: %v", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// buildApp wires the auto-apply pipeline. Billing is wired only when
// withBilling is set.
func buildApp(ctx context.Context, cfg *config.Config, withBilling bool) (*app, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{db: database, notifier: buildNotifier(cfg)}

	a.llm, err = llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	a.artifacts, err = buildArtifactStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	recorder, err := buildRecorder(cfg, database, a.artifacts)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.autoApply = autoapply.New(autoapply.Deps{
		Profiles:  database,
		Jobs:      database,
		Assembler: assembly.NewAssembler(database, projectPolicy(cfg)),
		Reranker:  suitability.NewReranker(suitability.NewLLMClassifier(a.llm)),
		Optimizer: optimize.NewOptimizer(a.llm),
		Recorder:  recorder,
		Notifier:  a.notifier,
		Timeouts:  autoapply.TimeoutsFromConfig(cfg.Timeouts),
	})

	if withBilling {
		a.reconciler, err = buildReconciler(cfg, database, a.notifier)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Telegram.BotToken == "" {
		return notify.LogNotifier{}
	}
	tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("[main] Warning: telegram unavailable, logging notifications instead: %v", err)
		return notify.LogNotifier{}
	}
	return tg
}

func projectPolicy(cfg *config.Config) assembly.ProjectPolicy {
	if cfg.ProjectPolicy == config.ProjectPolicyPlaceholder {
		return assembly.PlaceholderOnly{}
	}
	return assembly.ReuseOrPlaceholder{}
}

func scorer(cfg *config.Config) submission.Scorer {
	if cfg.Scorer == config.ScorerKeyword {
		return submission.KeywordScorer{}
	}
	return submission.NewRandomScorer(0)
}

// buildArtifactStore returns the S3 store when artifacts are rendered and
// uploaded, nil when URLs are only synthesized.
func buildArtifactStore(cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.ArtifactStore != config.ArtifactStoreS3 {
		return nil, nil
	}
	store, err := storage.NewS3Store(cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}
	return store, nil
}

func buildRecorder(cfg *config.Config, database *db.DB, store storage.ObjectStore) (*submission.Recorder, error) {
	if cfg.ApplyFunctionURL == "" {
		return nil, fmt.Errorf("APPLY_FUNCTION_URL environment variable is required")
	}

	var publisher submission.ArtifactPublisher = submission.PlaceholderPublisher{BaseURL: cfg.ArtifactBaseURL}
	if store != nil {
		publisher = submission.NewStoragePublisher(store, export.NewPDFRenderer())
	}

	apply := submission.NewHTTPApplyAction(cfg.ApplyFunctionURL, cfg.ApplyFunctionKey)
	return submission.NewRecorder(database, scorer(cfg), publisher, apply), nil
}

func buildReconciler(cfg *config.Config, database *db.DB, notifier notify.Notifier) (*billing.Reconciler, error) {
	catalog, err := billing.LoadCatalog(cfg.PricingCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing catalog: %w", err)
	}
	gateway, err := billing.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment gateway: %w", err)
	}
	log.Printf("[main] pricing catalog v%d loaded (%d plans, %d add-ons)", catalog.Version, len(catalog.Plans), len(catalog.AddOns))
	return billing.NewReconciler(catalog, database, gateway, notifier).
		WithGatewayTimeout(cfg.Timeouts.Gateway.Std()), nil
}
