package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	formedit "github.com/goliatone/go-formedit"
	"github.com/goliatone/go-formedit/internal/config"
	"github.com/goliatone/go-formedit/internal/logging"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/orchestrator"
	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/persist/sqlitestore"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
	"github.com/goliatone/go-formedit/pkg/session"
)

var (
	errNoSource = errors.New("formedit: --source is required")
	errNoFormID = errors.New("formedit: --form is required")
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	source string
	formID string

	store   *sqlitestore.Store
	bridge  *persist.Bridge
	orch    *orchestrator.Orchestrator
	session *session.Session
}

// setup resolves configuration, letting explicitly set flags win over the
// environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("key-prefix") {
		cfg.KeyPrefix, _ = flags.GetString("key-prefix")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("strict-ids") {
		cfg.StrictIDs, _ = flags.GetBool("strict-ids")
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) teardown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// openStore opens the SQLite store and the bridge on top of it.
func (a *app) openStore() error {
	if a.store != nil {
		return nil
	}
	store, err := sqlitestore.Open(a.cfg.DBPath)
	if err != nil {
		return err
	}
	bridgeOpts := append(a.cfg.BridgeOptions(), persist.WithLogger(a.logger))
	bridge, err := persist.NewBridge(store, bridgeOpts...)
	if err != nil {
		_ = store.Close()
		return err
	}
	a.store = store
	a.bridge = bridge
	return nil
}

// open loads the form document and the store concurrently, then opens the
// session for --form.
func (a *app) open(ctx context.Context) (*session.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	if strings.TrimSpace(a.source) == "" {
		return nil, errNoSource
	}
	if a.formID == "" {
		return nil, errNoFormID
	}

	builderOpts := []model.BuilderOption{model.WithLogger(a.logger)}
	if a.cfg.StrictIDs {
		builderOpts = append(builderOpts, model.WithStrictIDs())
	}
	a.orch = orchestrator.New(
		orchestrator.WithLoader(newLoader(a.cfg)),
		orchestrator.WithModelBuilder(model.NewBuilder(builderOpts...)),
		orchestrator.WithLogger(a.logger),
	)

	var form model.Form
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form, err = a.orch.BuildForm(gctx, orchestrator.Request{Source: parseSource(a.source)})
		return err
	})
	g.Go(a.openStore)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s, err := session.New(ctx, form, a.formID,
		session.WithBridge(a.bridge),
		session.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.session = s
	return s, nil
}

func newLoader(cfg config.Config) rawdoc.Loader {
	return formedit.NewLoader(rawdoc.WithHTTPFallback(cfg.HTTPTimeout))
}

func parseSource(raw string) rawdoc.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return rawdoc.SourceFromURL(path)
	}
	return rawdoc.SourceFromFile(path)
}

func describeSession(s *session.Session) string {
	mode := "read-only"
	if s.EditMode() {
		mode = "editing"
	}
	return fmt.Sprintf("%s: %s, %d change(s)", s.FormID(), mode, len(s.Changes()))
}
