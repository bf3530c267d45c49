package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lux2go/lux2go/internal/api"
	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/connection"
	"github.com/lux2go/lux2go/internal/controller"
	"github.com/lux2go/lux2go/internal/persistence"
	"github.com/lux2go/lux2go/internal/publish"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/lux2go/lux2go/internal/statistics"
	"github.com/lux2go/lux2go/internal/transport"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	config := configuration.CurrentConfig
	clk := clock.New()

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence at %s: %v", config.DbPath, err)
	}
	initialPosition := LoadInitialPosition(pers, config.Actuator)

	channels := sensors.RegisterChannels(config.Sensor.Channels, config.Sensor.RollingWindowSize)
	loop, err := controller.NewControlLoop(config, channels, initialPosition, clk)
	if err != nil {
		ui.Fatal("Unable to create control loop: %v", err)
	}

	link, err := transport.NewTransport(config.Connection, config.Sensor)
	if err != nil {
		ui.Fatal("Unable to create %s transport: %v", config.Connection.Transport, err)
	}
	manager := connection.NewManager(config.Connection, link, loop, clk)

	statistics.Register(statistics.NewChannelCollector(channels))
	statistics.Register(statistics.NewActuatorCollector(loop))
	statistics.Register(statistics.NewSessionCollector(manager, loop))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === connection manager and control loop
		g.Add(func() error {
			err := manager.Run(ctx)
			ui.Info("Connection manager stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === persistence snapshots
		monitor := NewSnapshotMonitor(pers, channels, loop, config.Persistence.SnapshotRate, clk)
		g.Add(func() error {
			return monitor.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", config.Statistics.Port),
			Handler: promhttp.Handler(),
		}
		g.Add(func() error {
			ui.Info("Serving metrics on %s/metrics", server.Addr)
			err := server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			shutdown(server.Shutdown)
		})
	}
	if config.Api.Enabled {
		// === REST API
		rest := api.CreateRestService(api.Sources{
			Session:    manager,
			Actuator:   loop,
			Registerer: prometheus.DefaultRegisterer,
		})
		g.Add(func() error {
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
			ui.Info("Serving REST api on %s", addr)
			err := rest.Start(addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}, func(err error) {
			ui.Info("Stopping REST api...")
			shutdown(rest.Shutdown)
		})
	}
	if config.Mqtt.Enabled {
		// === MQTT publisher
		publisher := publish.NewPublisher(config.Mqtt, publish.NewClient(config.Mqtt), channels, manager, loop, clk)
		g.Add(func() error {
			return publisher.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// LoadInitialPosition returns the last persisted actuator position, or the configured
// initial position if none was saved yet
func LoadInitialPosition(p persistence.Persistence, config configuration.ActuatorConfig) int {
	record, err := p.LoadActuatorPosition()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			ui.Warning("Unable to load last actuator position: %v", err)
		}
		return config.InitialPosition
	}
	ui.Info("Restoring last actuator position %d from %s", record.Position, record.Time.Format(time.RFC3339))
	return record.Position
}

func shutdown(f func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f(ctx); err != nil {
		ui.Warning("Error during shutdown: %v", err)
	}
}
