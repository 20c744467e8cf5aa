package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "geomoments/internal/modules/auth/adapter/in"
	authoutadapter "geomoments/internal/modules/auth/adapter/out"
	authout "geomoments/internal/modules/auth/port/out"
	authservice "geomoments/internal/modules/auth/service"
	authusecase "geomoments/internal/modules/auth/usecase"
	checkininadapter "geomoments/internal/modules/checkin/adapter/in"
	checkinoutadapter "geomoments/internal/modules/checkin/adapter/out"
	checkinservice "geomoments/internal/modules/checkin/service"
	checkinusecase "geomoments/internal/modules/checkin/usecase"
	geoinadapter "geomoments/internal/modules/geo/adapter/in"
	geooutadapter "geomoments/internal/modules/geo/adapter/out"
	geoservice "geomoments/internal/modules/geo/service"
	geousecase "geomoments/internal/modules/geo/usecase"
	"geomoments/internal/platform/clock"
	"geomoments/internal/platform/config"
	"geomoments/internal/platform/graphql"
	"geomoments/internal/platform/id"
	"geomoments/internal/platform/logging"
	uiapp "geomoments/internal/ui/app"
)

type App struct {
	Config     config.Config
	AuthCLI    authinadapter.CLIHandler
	CheckInCLI checkininadapter.CLIHandler
	GeoCLI     geoinadapter.CLIHandler
	GeoTUI     geoinadapter.TUIHandler

	closers []io.Closer
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	clk := clock.SystemClock{}
	ctx := context.Background()

	var storage authout.CookieStorage
	if cfg.Ephemeral {
		storage = authoutadapter.NewNopCookieStorage()
	} else {
		storage = authoutadapter.NewFileCookieJar(cfg.CookiePath, clk)
	}
	store := authservice.NewSessionStore(ctx, authservice.NewCookieCodec(storage, logger), logger)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	gql := graphql.NewClient(cfg.Endpoint, httpClient, id.UUID{}, logger)

	authUC := authusecase.NewInteractor(authservice.NewAuthService(
		clk,
		store,
		authoutadapter.NewGraphQLAuthGateway(gql),
		authoutadapter.NewJWTTokenInspector(),
	))

	dbPath := cfg.DBPath
	if cfg.Ephemeral {
		dbPath = ""
	}
	cache, err := checkinoutadapter.NewSQLiteFeedCache(dbPath)
	if err != nil {
		return nil, fmt.Errorf("new feed cache: %w", err)
	}
	checkinUC := checkinusecase.NewInteractor(checkinservice.NewCheckInService(
		clk,
		authUC,
		checkinoutadapter.NewGraphQLGateway(gql),
		checkinoutadapter.NewHTTPImageUploader(cfg.UploadURL, httpClient),
		checkinoutadapter.NewLocalImageReader(),
		cache,
		logger,
	))

	geoUC := geousecase.NewInteractor(geoservice.NewGeoService(
		geooutadapter.NewStaticLocator(cfg.Map.CenterLat, cfg.Map.CenterLng),
		cfg.Map.Zoom,
		logger,
	))

	logger.Debug("app wired", "endpoint", cfg.Endpoint, "ephemeral", cfg.Ephemeral, "state_dir", cfg.StateDir)
	return &App{
		Config:     cfg,
		AuthCLI:    authinadapter.NewCLIHandler(authUC),
		CheckInCLI: checkininadapter.NewCLIHandler(checkinUC),
		GeoCLI:     geoinadapter.NewCLIHandler(geoUC),
		GeoTUI:     geoinadapter.NewTUIHandler(geoUC),
		closers:    []io.Closer{cache},
	}, nil
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenLogFile opens the TUI log file; ephemeral runs discard logs.
func OpenLogFile(cfg config.Config) (io.WriteCloser, error) {
	if cfg.Ephemeral || cfg.LogPath == "" {
		return nopWriteCloser{io.Discard}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.AuthCLI, app.CheckInCLI, app.GeoTUI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
