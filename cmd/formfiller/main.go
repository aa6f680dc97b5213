// Formfiller drives the municipal cadastral form in a visible browser,
// populating each collapsible section from the operator's saved draft and
// pausing at every section until the operator clicks the real save button.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	pw "github.com/playwright-community/playwright-go"
	"github.com/redis/go-redis/v9"

	"catastro/commands"
	"catastro/draft"
	"catastro/engine"
	"catastro/license"
	"catastro/sections"
)

// App ties the live page, the run context and the command surface together.
type App struct {
	cfg   *Config
	log   engine.Logger
	store *draft.Store
	rc    *sections.RunContext
	orch  *sections.Orchestrator
	bus   *commands.Bus
	runID string
}

// StartRun launches the section-by-section walk on its own goroutine. The
// orchestrator rejects overlapping runs.
func (a *App) StartRun() error {
	idx, _, running := a.orch.Status()
	if running {
		return &alreadyRunningError{section: idx}
	}
	go func() {
		if err := a.orch.Run(context.Background()); err != nil {
			engine.Error(a.log, "El recorrido terminó con error: %v", err)
		}
	}()
	return nil
}

type alreadyRunningError struct{ section int }

func (e *alreadyRunningError) Error() string {
	return fmt.Sprintf("ya hay un recorrido en curso (sección %d)", e.section)
}

// ExecuteConstrucciones satisfies commands.Executor.
func (a *App) ExecuteConstrucciones(ctx context.Context, rows []sections.Row) error {
	return sections.ExecuteConstrucciones(ctx, a.rc, rows)
}

// ExecuteObras satisfies commands.Executor.
func (a *App) ExecuteObras(ctx context.Context, rows []sections.Row) error {
	return sections.ExecuteObras(ctx, a.rc, rows)
}

func main() {
	configPath := flag.String("config", "config.yaml", "ruta del archivo de configuración")
	autoStart := flag.Bool("auto", true, "iniciar el recorrido al cargar la página")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Configuración: %v", err)
	}
	logger := &engine.SimpleLogger{}

	// License gate. Offline operation rides on the cached verdict.
	if !cfg.License.Disabled && cfg.License.ServerURL != "" {
		cache := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		lc := license.NewClient(cfg.License.ServerURL, cfg.License.Codigo, cache)
		verdict, err := lc.Verify(context.Background())
		if err != nil {
			log.Fatalf("❌ Licencia: %v", err)
		}
		if !verdict.Valid {
			log.Fatalf("❌ Licencia inválida: %s", verdict.Message)
		}
		engine.Success(logger, "Licencia válida (expira %s)", verdict.ExpiraEn)
	}

	store := draft.NewStore(cfg.RedisAddr, cfg.DraftKey)
	defer store.Close()

	log.Println("🔧 Preparando Chromium de Playwright…")
	if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		log.Printf("⚠️  Instalación de Playwright: %v (se continúa)", err)
	}
	pwInstance, err := pw.Run()
	if err != nil {
		log.Fatalf("❌ Playwright no inició: %v", err)
	}
	defer pwInstance.Stop()

	// The browser is always visible: the run pauses for real human saves.
	launchOptions := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Browser.Headless),
	}
	if cfg.Browser.ExecutablePath != "" {
		launchOptions.ExecutablePath = &cfg.Browser.ExecutablePath
	}
	browser, err := pwInstance.Chromium.Launch(launchOptions)
	if err != nil {
		log.Fatalf("❌ No se pudo lanzar el navegador: %v", err)
	}
	defer browser.Close()

	page, err := browser.NewPage(pw.BrowserNewPageOptions{
		Viewport: &pw.Size{Width: 1366, Height: 900},
	})
	if err != nil {
		log.Fatalf("❌ No se pudo crear la página: %v", err)
	}
	defer page.Close()

	engine.Info(logger, "Cargando la ficha: %s", cfg.TargetURL)
	if _, err := page.Goto(cfg.TargetURL, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateNetworkidle,
	}); err != nil {
		log.Fatalf("❌ No se pudo cargar la ficha: %v", err)
	}

	runID := uuid.New().String()
	rc, err := sections.NewRunContext(context.Background(), page, store, logger, runID)
	if err != nil {
		log.Fatalf("❌ No se pudo preparar la ejecución: %v", err)
	}
	applyDelays(cfg, rc)

	app := &App{
		cfg:   cfg,
		log:   logger,
		store: store,
		rc:    rc,
		orch:  sections.NewOrchestrator(rc),
		runID: runID,
	}

	if cfg.NATS.URL != "" {
		bus, err := commands.NewBus(commands.Config{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
		}, app, logger)
		if err != nil {
			log.Printf("⚠️  Sin bus de comandos: %v", err)
		} else {
			app.bus = bus
			defer bus.Close()
		}
	}
	if app.bus == nil {
		// The HTTP mirror still needs a dispatcher.
		app.bus = commands.NewLocalBus(app, logger)
	}

	if *autoStart {
		// Page load already completed; begin at section 0.
		if err := app.StartRun(); err != nil {
			engine.Warning(logger, "No se pudo iniciar el recorrido: %v", err)
		}
	}

	port := cfg.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	log.Printf("🚀 Formfiller escuchando en %s", port)
	srv := &http.Server{
		Addr:              port,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("❌ Servidor de control: %v", err)
	}
}

func applyDelays(cfg *Config, rc *sections.RunContext) {
	if cfg.Delays.SettleMs > 0 {
		rc.Waiter.SettleDelay = time.Duration(cfg.Delays.SettleMs) * time.Millisecond
	}
	if cfg.Delays.PollMs > 0 {
		rc.Waiter.PollInterval = time.Duration(cfg.Delays.PollMs) * time.Millisecond
	}
	if cfg.Delays.WaitTimeoutMs > 0 {
		rc.Waiter.Timeout = time.Duration(cfg.Delays.WaitTimeoutMs) * time.Millisecond
	}
}
