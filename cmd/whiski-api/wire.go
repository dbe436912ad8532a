package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/whiski-agent/internal/adapters/llm"
	"github.com/PabloGalante/whiski-agent/internal/adapters/places"
	firestorestore "github.com/PabloGalante/whiski-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/whiski-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/whiski-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/whiski-agent/internal/adapters/weather"
	"github.com/PabloGalante/whiski-agent/internal/app/cafes"
	"github.com/PabloGalante/whiski-agent/internal/app/chat"
	"github.com/PabloGalante/whiski-agent/internal/app/drinks"
	"github.com/PabloGalante/whiski-agent/internal/app/prompt"
	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
	"github.com/PabloGalante/whiski-agent/internal/app/telemetry"
	"github.com/PabloGalante/whiski-agent/internal/app/tools"
	"github.com/PabloGalante/whiski-agent/internal/app/whiski"
	"github.com/PabloGalante/whiski-agent/internal/config"
	"github.com/PabloGalante/whiski-agent/internal/domain"
	"github.com/PabloGalante/whiski-agent/internal/observability"
)

// deps is everything the commands need, built once from the config.
type deps struct {
	svc      *whiski.Service
	resolver *recommend.Resolver
	finder   *cafes.Finder
	weather  domain.WeatherProvider
	traces   *telemetry.Service

	closers []func() error
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

func build(ctx context.Context, cfg *config.Config) (*deps, error) {
	log := observability.Logger()
	d := &deps{}

	// Drink table: built-in, optionally overridden from YAML.
	table := drinks.Default()
	if cfg.Flow.DrinkTablePath != "" {
		t, err := drinks.Load(cfg.Flow.DrinkTablePath)
		if err != nil {
			return nil, fmt.Errorf("load drink table: %w", err)
		}
		table = t
		log.Info("drink table loaded", "path", cfg.Flow.DrinkTablePath)
	}

	// Place search
	var search domain.PlaceSearch
	if cfg.Places.APIKey != "" {
		search = places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL, cfg.Places.Timeout)
		log.Info("using google places search")
	} else {
		log.Warn("GOOGLE_PLACES_API_KEY not set, café search disabled")
	}
	d.finder = cafes.NewFinder(search)

	// Weather
	if cfg.Weather.Enabled {
		d.weather = weather.NewClient(cfg.Weather.ForecastURL, cfg.Weather.GeocodingURL, cfg.Weather.Timeout)
	}

	// Traces: Firestore, SQLite or Memory
	var traceStore domain.TraceStore
	switch cfg.Traces.Backend {
	case config.TraceFirestore:
		log.Info("using firestore trace store", "project", cfg.GCPProjectID)
		fs, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, fs.Close)
		traceStore = fs
	case config.TraceSQLite:
		log.Info("using sqlite trace store", "path", cfg.Traces.SQLitePath)
		st, err := sqlitestore.Open(cfg.Traces.SQLitePath)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, st.Close)
		traceStore = st
	default:
		log.Info("using in-memory trace store")
		traceStore = memstore.NewTraceStore(0)
	}
	d.traces = telemetry.NewService(traceStore)

	// Agent
	agent, err := buildAgent(ctx, cfg, table, d.finder)
	if err != nil {
		d.Close()
		return nil, err
	}
	if agent != nil {
		agent = telemetry.NewTracedAgent(agent, traceStore)
	}

	resolverOpts := []recommend.Option{}
	if agent != nil {
		resolverOpts = append(resolverOpts, recommend.WithAgent(agent))
	}
	if cfg.Agent.PromptTemplatePath != "" {
		tpl, err := prompt.LoadFile("task", cfg.Agent.PromptTemplatePath, prompt.RecommendationVars...)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("load prompt template: %w", err)
		}
		if err := tpl.Watch(ctx); err != nil {
			log.Warn("prompt template will not be reloaded", "error", err)
		}
		resolverOpts = append(resolverOpts, recommend.WithTemplates(tpl, nil))
	}
	d.resolver = recommend.NewResolver(table, resolverOpts...)

	opts := []whiski.Option{
		whiski.WithResolver(d.resolver),
		whiski.WithFinder(d.finder),
		whiski.WithChat(chat.NewDefaultChain(agent, nil)),
		whiski.WithLoadingDelay(cfg.Flow.LoadingDelay),
	}
	if d.weather != nil {
		opts = append(opts, whiski.WithWeather(d.weather))
	}
	d.svc = whiski.NewService(memstore.NewSessionStore(), opts...)

	return d, nil
}

// buildAgent returns nil for the static backend.
func buildAgent(ctx context.Context, cfg *config.Config, table *drinks.Table, finder *cafes.Finder) (domain.Agent, error) {
	log := observability.Logger()
	drinkTool := tools.NewDrinkTool(table)
	cafeTool := tools.NewCafeSearchTool(finder)

	gc := llm.GeminiConfig{
		Project:    cfg.GCPProjectID,
		Location:   cfg.GCPLocation,
		APIKey:     cfg.Agent.APIKey,
		ModelName:  cfg.Agent.ModelName,
		Timeout:    cfg.Agent.Timeout,
		MaxRetries: cfg.Agent.MaxRetries,
	}

	switch cfg.Agent.Backend {
	case config.AgentStatic:
		log.Info("agent disabled, static recommendations only")
		return nil, nil
	case config.AgentGenAI:
		log.Info("using gemini agent", "model", cfg.Agent.ModelName)
		c, err := llm.NewGeminiClient(ctx, gc)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return c, nil
	case config.AgentADK:
		log.Info("using adk agent", "model", cfg.Agent.ModelName)
		a, err := llm.NewADKAgent(ctx, gc, drinkTool, cafeTool)
		if err != nil {
			return nil, fmt.Errorf("init adk agent: %w", err)
		}
		return a, nil
	default:
		log.Info("using mock agent")
		return llm.NewMockAgent(tools.NewRegistry(drinkTool, cafeTool)), nil
	}
}
