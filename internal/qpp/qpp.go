package qpp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/common/health"
	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/task"
	"github.com/armadaproject/qpp/internal/common/util"
	"github.com/armadaproject/qpp/internal/qpp/archive"
	"github.com/armadaproject/qpp/internal/qpp/compute"
	"github.com/armadaproject/qpp/internal/qpp/configuration"
	"github.com/armadaproject/qpp/internal/qpp/coordinator"
	"github.com/armadaproject/qpp/internal/qpp/ledger"
	"github.com/armadaproject/qpp/internal/qpp/metrics"
	"github.com/armadaproject/qpp/internal/qpp/server"
	"github.com/armadaproject/qpp/internal/qpp/sweep"
)

func Serve(ctx *qppcontext.Context, config *configuration.QppConfig, healthChecks *health.MultiChecker) error {
	log.Info("qpp server starting")
	defer log.Info("qpp server shutting down")

	// We call startupCompleteCheck.MarkComplete() when all services have been started.
	startupCompleteCheck := health.NewStartupCompleteChecker()
	healthChecks.Add(startupCompleteCheck)

	// Run all services within an errgroup to propagate errors between services.
	// Defer cancelling the parent context to ensure the errgroup is cancelled on return.
	ctx, cancel := qppcontext.WithCancel(ctx)
	defer cancel()
	g, ctx := qppcontext.ErrGroup(ctx)

	// List of services to run concurrently.
	// Services are started together once everything has been set up.
	var services []func() error

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	store, closer, err := CreateArchiveStore(config)
	if err != nil {
		return err
	}
	defer util.CloseResource("archive store", closer)
	healthChecks.Add(health.CheckerFunc(store.Check))

	deferred := config.Archive.PersistInterval > 0
	measurements, err := archive.Open(store, config.Archive.Qubits, config.Archive.Capacity, archive.Options{
		Deferred:  deferred,
		OnPersist: recorder.RecordPersist,
	})
	if err != nil {
		return err
	}
	status := measurements.Status()
	log.Infof("archive ready: %d qubits, capacity %d, cursor at %d", status.Qubits, status.Capacity, status.CurrentPos)

	pool := ledger.New(config.Ledger.Units)
	log.Infof("ledger ready with %d qubits", pool.Capacity())

	prometheus.MustRegister(metrics.NewStateCollector(pool, metrics.ArchiveSourceFunc(func() metrics.ArchiveState {
		s := measurements.Status()
		return metrics.ArchiveState{Qubits: s.Qubits, Capacity: s.Capacity, CurrentPos: s.CurrentPos}
	})))

	simulator := compute.NewExecSimulator(config.Compute.Command, config.Compute.Args...)
	stage := compute.NewStage(simulator, config.Compute.Timeout)
	jobs := coordinator.New(pool, stage, measurements, recorder)

	objective, ok := sweep.ObjectiveByName(config.Sweep.Objective)
	if !ok {
		return errors.Errorf("unknown sweep objective %q", config.Sweep.Objective)
	}
	sweeper := sweep.NewController(jobs, objective, recorder)

	// Allows for registering functions to be run periodically in the background.
	// Deferred snapshots get a final flush once the flush task has stopped.
	taskManager := task.NewBackgroundTaskManager(ctx, metrics.MetricPrefix, prometheus.DefaultRegisterer)
	defer func() {
		taskManager.StopAll(time.Second * 2)
		if err := measurements.Flush(); err != nil {
			log.WithError(err).Error("failed to flush archive on shutdown")
		}
	}()
	if deferred {
		log.Infof("archive snapshots are written every %s", config.Archive.PersistInterval)
		taskManager.Register("archive_flush", config.Archive.PersistInterval, func(ctx *qppcontext.Context) {
			if err := measurements.Flush(); err != nil {
				ctx.Log.WithError(err).Error("failed to flush archive")
			}
		})
	}

	handler := server.New(jobs, sweeper, measurements, pool, healthChecks, config.Sweep.DefaultIterations)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.HttpPort),
		Handler: handler.Router(),
	}

	// Shut down the http server if the context is cancelled.
	// Give in-flight jobs 5 seconds to finish.
	services = append(services, func() error {
		<-ctx.Done()
		shutdownCtx, cancel := qppcontext.WithTimeout(qppcontext.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http server did not shut down cleanly")
		}
		return nil
	})

	// Cancel the errgroup if the http server fails.
	services = append(services, func() error {
		log.Infof("qpp http server listening on %d", config.HttpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.WithStack(err)
		}
		return nil
	})

	// Start all services and wait for the context to be cancelled,
	// which if the parent context is cancelled or if any of the services returns an error.
	for _, service := range services {
		g.Go(service)
	}

	startupCompleteCheck.MarkComplete()
	return g.Wait()
}
