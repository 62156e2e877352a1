package devserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	Address string
	// Secret signs access tokens. A random one is generated when empty.
	Secret   []byte
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost; tests use bcrypt.MinCost.
	BcryptCost int
	// ShortageThreshold is the attendance percentage below which a course
	// is flagged. Defaults to 75.
	ShortageThreshold float64
	Logger            logging.Logger
}

type Server struct {
	opts  Options
	app   *echo.Echo
	store *store
	log   logging.Logger

	// tokens carrying an older generation are rejected
	generation atomic.Int64
}

func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := rand.Read(opts.Secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.ShortageThreshold == 0 {
		opts.ShortageThreshold = 75
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Server{
		opts:  opts,
		app:   echo.New(),
		store: newStore(opts.BcryptCost, opts.ShortageThreshold),
		log:   opts.Logger.With("component", "devserver"),
	}
	if err := seed(s.store); err != nil {
		return nil, err
	}
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.HTTPErrorHandler = s.errorHandler
	s.app.Validator = newValidator()

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	s.app.Use(middleware.Recover())

	s.routes()
}

// Start blocks serving on Options.Address until Stop.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "dev backend listening", "address", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// InvalidateSessions rejects every token issued so far, as if they had all
// expired.
func (s *Server) InvalidateSessions() {
	s.generation.Add(1)
}

// PendingReset returns the outstanding password-reset token for email. The
// production backend mails it; here it is only logged and exposed.
func (s *Server) PendingReset(email string) (string, bool) {
	return s.store.pendingReset(email)
}

func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var detail any = http.StatusText(code)

	var he *echo.HTTPError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		code = http.StatusUnprocessableEntity
		detail = validationDetail(ve)
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			detail = m
		} else {
			detail = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		s.log.Error(c.Request().Context(), "request failed", "error", err)
	}
	if code == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]any{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func validationDetail(ve validator.ValidationErrors) []fieldError {
	out := make([]fieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			Type: fe.Tag(),
		})
	}
	return out
}

type echoValidator struct {
	v *validator.Validate
}

func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}

func newValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(str) != ""
	})
	return &echoValidator{v: v}
}
