// Command console is the KTRN key management terminal console.
package main

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ktrn/internal/api"
	"ktrn/internal/config"
	"ktrn/internal/observability"
	"ktrn/internal/service"
	"ktrn/internal/session"
	"ktrn/internal/store"
	"ktrn/internal/tui"
)

func main() {
	pflag.String("api-url", "", "backend base URL (overrides API_BASE_URL)")
	pflag.String("state", "", "local state database path (overrides STATE_PATH)")
	pflag.String("export-dir", "", "directory for report exports (overrides EXPORT_DIR)")
	pflag.Parse()
	if err := viper.BindPFlag("API_BASE_URL", pflag.Lookup("api-url")); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}
	if err := viper.BindPFlag("STATE_PATH", pflag.Lookup("state")); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}
	if err := viper.BindPFlag("EXPORT_DIR", pflag.Lookup("export-dir")); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "ktrn-console",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	st, err := store.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("Failed to open state database: %v", err)
	}

	sessions := session.NewManager(st)
	client := api.NewClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, sessions)

	deps := tui.Deps{
		Auth:      service.NewAuthService(client, sessions),
		Users:     service.NewUserService(client),
		Sites:     service.NewSiteService(client),
		Requests:  service.NewRequestService(service.AdminRequests(client)),
		Outsider:  service.NewRequestService(service.OutsiderRequests(client)),
		Dashboard: service.NewDashboardService(client),
		Reports:   service.NewReportService(client, cfg.ExportDir),
		Public:    service.NewPublicService(client, st),
		Submit:    service.NewSubmitService(client, sessions),
		MyRequests: func(userID uint) *service.RequestService {
			return service.NewRequestService(service.UserRequests(client, userID))
		},
		PollEvery: time.Duration(cfg.UserPollSeconds) * time.Second,
	}

	program := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	_, runErr := program.Run()

	// Teardown in reverse of construction: local state first, then the
	// tracing pipeline flush.
	if err := st.Close(); err != nil {
		observability.GlobalLogger.Error("closing state database", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		observability.GlobalLogger.Error("shutting down tracing", "error", err)
	}

	if runErr != nil {
		log.Fatalf("Console exited with error: %v", runErr)
	}
}
