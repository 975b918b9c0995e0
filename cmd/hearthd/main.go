// Hearth Core - smart home state reconciliation hub
//
// This is the main entry point for the Hearth daemon. Hearth keeps the
// authoritative view of every device in the home, reconciling MQTT push
// updates with remote API polling, and exposes the result over a REST
// API and WebSocket feed. It also dispatches validated lock commands,
// drives the lighting auto-adjust loop, and keeps the alarm audit trail.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/hearth-home/hearth-core/internal/alarm"
	"github.com/hearth-home/hearth-core/internal/api"
	"github.com/hearth-home/hearth-core/internal/bridge"
	"github.com/hearth-home/hearth-core/internal/connectivity"
	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/infrastructure/database"
	"github.com/hearth-home/hearth-core/internal/infrastructure/influxdb"
	"github.com/hearth-home/hearth-core/internal/infrastructure/logging"
	"github.com/hearth-home/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearth-home/hearth-core/internal/lighting"
	"github.com/hearth-home/hearth-core/internal/lock"
	"github.com/hearth-home/hearth-core/internal/remote"
	"github.com/hearth-home/hearth-core/internal/state"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Hearth Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database (alarm event audit trail)
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Alarm event log, restored from the audit trail before persistence
	// is attached so the replay is not written straight back out.
	alarmRepo, err := alarm.NewSQLiteRepository(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("creating alarm repository: %w", err)
	}
	alarmLog := alarm.NewLog()
	alarmLog.SetLogger(log)
	if err := alarmRepo.Restore(ctx, alarmLog); err != nil {
		return fmt.Errorf("restoring alarm history: %w", err)
	}
	alarmLog.SetRepository(alarmRepo)
	log.Info("alarm event log restored")

	// Device state store and reconciler
	store := state.NewStore()
	store.SetLogger(log)
	reconciler := state.NewReconciler(store, cfg.PollTolerance())
	reconciler.SetLogger(log)

	// Connectivity guard with a log-based degradation notification
	guard := connectivity.NewGuard(cfg.NotifyCooldown())
	guard.SetLogger(log)
	guard.OnDegraded(func(reason string, streak int) {
		log.Error("remote connection lost", "reason", reason, "streak", streak)
	})

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional telemetry sink)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// Record every accepted state change as telemetry.
		store.Subscribe(func(rec state.Record) {
			influxClient.WriteDeviceAttributes(rec.DeviceID, string(rec.Kind), rec.Attributes)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Outbound command bridge
	qos := byte(cfg.MQTT.QoS)
	commander := bridge.NewCommander(mqttClient, guard, qos)
	commander.SetLogger(log)

	// Lock command dispatcher
	dispatcher := lock.NewDispatcher(commander)
	dispatcher.SetLogger(log)

	// Lighting auto-adjust controller
	controller := lighting.NewController(store, commander, lighting.Config{
		TargetLux:    cfg.Lighting.TargetLux,
		DayStartHour: cfg.Lighting.DayStartHour,
		DayEndHour:   cfg.Lighting.DayEndHour,
		Tick:         cfg.LightingTick(),
	})
	controller.SetLogger(log)
	if influxClient != nil {
		controller.SetRecorder(influxClient)
	}

	// Inbound bridge: device state and events from MQTT
	ingress := bridge.NewIngress(mqttClient, reconciler, alarmLog, qos)
	ingress.SetLogger(log)
	if err := ingress.Start(); err != nil {
		return fmt.Errorf("starting bridge ingress: %w", err)
	}

	// API server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Store:      store,
		Dispatcher: dispatcher,
		Lighting:   controller,
		Commander:  commander,
		AlarmLog:   alarmLog,
		Guard:      guard,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Background loops: remote polling and the lighting tick.
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Remote.Enabled {
		poller := remote.NewPoller(
			remote.NewClient(cfg.Remote.BaseURL, cfg.RemoteTimeout()),
			reconciler,
			guard,
			cfg.PollInterval(),
		)
		poller.SetLogger(log)
		g.Go(func() error { return poller.Run(gctx) })
		log.Info("remote polling enabled", "base_url", cfg.Remote.BaseURL, "interval", cfg.PollInterval())
	} else {
		log.Info("remote polling disabled")
	}

	g.Go(func() error { return controller.Run(gctx) })

	log.Info("initialisation complete, waiting for shutdown signal")

	// Both loops exit with context.Canceled on shutdown.
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info("shutdown signal received, cleaning up")
	log.Info("Hearth Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
