package handlers

import (
	"fmt"
	"os"
	"time"

	"leafstage/classifier"
	"leafstage/database"
	"leafstage/diagnosis"
	"leafstage/history"
)

// Handler carries the dependencies of every route.
type Handler struct {
	engines         map[classifier.Strategy]*diagnosis.Engine
	defaultStrategy classifier.Strategy
	ledger          *history.Ledger
	repo            *database.Repository
	uploadDir       string
	oracleTimeout   time.Duration
}

type Options struct {
	DefaultStrategy classifier.Strategy
	UploadDir       string
	// OracleTimeout bounds remote classification per request; zero means none.
	OracleTimeout time.Duration
}

func New(engines []*diagnosis.Engine, ledger *history.Ledger, repo *database.Repository, opts Options) (*Handler, error) {
	h := &Handler{
		engines:         make(map[classifier.Strategy]*diagnosis.Engine, len(engines)),
		defaultStrategy: opts.DefaultStrategy,
		ledger:          ledger,
		repo:            repo,
		uploadDir:       opts.UploadDir,
		oracleTimeout:   opts.OracleTimeout,
	}
	for _, e := range engines {
		h.engines[e.Strategy()] = e
	}
	if _, ok := h.engines[h.defaultStrategy]; !ok {
		return nil, fmt.Errorf("no engine configured for default strategy %q", h.defaultStrategy)
	}
	if h.uploadDir != "" {
		if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return h, nil
}
