package devserver

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/attendance/internal/devserver/config"
	"github.com/dmitrijs2005/attendance/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App runs a Server as a standalone process.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	srv, err := New(Options{
		Address:           c.Address,
		Secret:            []byte(c.SecretKey),
		TokenTTL:          c.AccessTokenValidityDuration,
		ShortageThreshold: c.ShortageThreshold,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is done or a termination signal arrives, then shuts
// the listener down.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting dev backend...")
	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		serveErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Start(); err != nil {
			app.logger.Error(ctx, "server failed", "error", err)
			serveErr = err
			cancelFunc()
		}
	}()

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Stop(stopCtx); err != nil {
		app.logger.Error(stopCtx, "shutdown failed", "error", err)
	}

	wg.Wait()
	app.logger.Info(stopCtx, "dev backend stopped")
	return serveErr
}
