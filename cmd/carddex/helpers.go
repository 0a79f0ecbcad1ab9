package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"carddex/internal/catalog"
	"carddex/internal/config"
	"carddex/internal/corpus"
	"carddex/internal/retrieval"
	"carddex/internal/scorer"
)

// components bundles the stores and services a command needs, with a single
// cleanup for whatever was opened.
type components struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Store
	corpus  *corpus.Store
	scorer  *scorer.Scorer
	service *retrieval.Service
	close   func()
}

func buildComponents(ctx *commandContext) (*components, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	var catalogStore *catalog.Store
	if cfg.Catalog.Enabled {
		catalogStore, err = catalog.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
	}
	corpusStore, err := corpus.Open(cfg)
	if err != nil {
		if catalogStore != nil {
			catalogStore.Close()
		}
		return nil, fmt.Errorf("open corpus: %w", err)
	}

	sc := scorer.New(scorer.NewStubDex(logger).Lookup, logger)

	var searcher retrieval.CandidateSearcher
	if catalogStore != nil {
		searcher = catalogStore
	}
	service, err := retrieval.NewService(cfg, searcher, corpusStore, sc, nil, logger)
	if err != nil {
		if catalogStore != nil {
			catalogStore.Close()
		}
		corpusStore.Close()
		return nil, fmt.Errorf("build retrieval service: %w", err)
	}

	return &components{
		cfg:     cfg,
		logger:  logger,
		catalog: catalogStore,
		corpus:  corpusStore,
		scorer:  sc,
		service: service,
		close: func() {
			if catalogStore != nil {
				catalogStore.Close()
			}
			corpusStore.Close()
		},
	}, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 3, 64)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
