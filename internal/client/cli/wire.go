package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/attendance/internal/client/api"
	"github.com/dmitrijs2005/attendance/internal/client/config"
	"github.com/dmitrijs2005/attendance/internal/client/gateway"
	"github.com/dmitrijs2005/attendance/internal/client/reports"
	"github.com/dmitrijs2005/attendance/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/attendance/internal/client/session"
	"github.com/dmitrijs2005/attendance/internal/client/storage"
	"github.com/dmitrijs2005/attendance/internal/logging"
)

// NewFromConfig wires the whole client: credential store, gateway, typed
// API, session and report sink. The returned close function releases the
// credential database.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	closeFn := func() {}

	var creds credentials.Store
	if cfg.Ephemeral {
		creds = credentials.NewMemoryStore()
	} else {
		db, err := storage.InitDatabase(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("credential store: %w", err)
		}
		closeFn = func() { _ = db.Close() }
		creds = credentials.NewSQLiteStore(db)
	}

	var sink reports.Sink
	if cfg.S3Enabled() {
		s3sink, err := reports.NewS3Sink(ctx, reports.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("report sink: %w", err)
		}
		sink = s3sink
	} else {
		sink = reports.NewFileSink(cfg.ReportsDir)
	}

	app := NewApp(Deps{Sink: sink, Logger: logger})

	gw := gateway.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, app, logger)
	backend := api.New(gw)
	st := session.New(creds, backend.Auth, app, logger)
	gw.Bind(st)
	app.Attach(st, backend)

	return app, closeFn, nil
}
