package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/OFFIS-RIT/famtree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/famtree/backend/internal/storage"
	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func newRequestID() string {
	id, err := gonanoid.New()
	if err != nil {
		return ""
	}
	return id
}

type Options struct {
	BodyLimit string
	StaticDir string
}

// New assembles the echo instance with middleware and routes.
func New(app *mid.App, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	bodyLimit := opts.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "32M"
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("Request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID, "err", v.Error)
				return nil
			}
			logger.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(mid.AppContextMiddleware(app))

	RegisterRoutes(e, app)

	if opts.StaticDir != "" {
		e.Static("/", opts.StaticDir)
	}

	return e
}

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sample, err := storage.SampleTable(ctx)
	if err != nil {
		logger.Fatal("Failed to configure sample table", "err", err)
	}

	app := &mid.App{
		Sample:       sample,
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		app.Key = k
		app.AuthEnabled = true
	} else {
		logger.Warn("AUTH_URL not set, /api is unauthenticated")
	}

	e := New(app, Options{
		BodyLimit: util.GetEnvString("MAX_UPLOAD_SIZE", "32M"),
		StaticDir: util.GetEnv("STATIC_DIR"),
	})

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port, "sample", sample.FilePath)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
