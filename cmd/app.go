package cmd

import (
	"fmt"
	"io"
	"log"

	"leafstage/classifier"
	"leafstage/config"
	"leafstage/database"
	"leafstage/diagnosis"
	"leafstage/history"
	"leafstage/oracle"
	"leafstage/severity"
)

var (
	configPath string
	verbose    bool
)

// app is the wired set of components shared by every subcommand.
type app struct {
	cfg     *config.Config
	repo    *database.Repository
	ledger  *history.Ledger
	engines map[classifier.Strategy]*diagnosis.Engine
}

func newApp() (*app, error) {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	repo := database.NewRepository(db)

	ledger, err := history.NewLedger(cfg.History, history.NewGormStore(db))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	a := &app{
		cfg:     cfg,
		repo:    repo,
		ledger:  ledger,
		engines: make(map[classifier.Strategy]*diagnosis.Engine),
	}

	scorer := severity.NewScorer(cfg.Severity)
	a.engines[classifier.StrategyLocal] = diagnosis.NewEngine(
		classifier.NewLocal(cfg.Classifier.Heuristic), scorer, ledger, diagnosis.WithRecorder(repo))

	if cfg.RemoteEnabled() {
		o, err := oracle.New(cfg.Oracle.Config)
		if err != nil {
			return nil, err
		}
		a.engines[classifier.StrategyRemote] = diagnosis.NewEngine(
			classifier.NewRemote(o), scorer, ledger, diagnosis.WithRecorder(repo))
	}
	return a, nil
}

func (a *app) engine(s classifier.Strategy) (*diagnosis.Engine, error) {
	if e, ok := a.engines[s]; ok {
		return e, nil
	}
	if s == classifier.StrategyRemote {
		return nil, fmt.Errorf("remote strategy needs an API key, set %s", oracle.APIKeyEnv(a.cfg.Oracle.Provider))
	}
	return nil, fmt.Errorf("unknown strategy %q (supported: local, remote)", s)
}

func (a *app) engineList() []*diagnosis.Engine {
	list := make([]*diagnosis.Engine, 0, len(a.engines))
	for _, e := range a.engines {
		list = append(list, e)
	}
	return list
}
