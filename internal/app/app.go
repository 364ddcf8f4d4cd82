package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/health"
)

// Run собирает пайплайн, обрабатывает демонстрационные заказы и, если включено
// WaitForEnter, ждёт Enter из in или отмены ctx. Вывод пайплайна пишется в out.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, out, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = startMetricsServer(ctx, cfg.MetricsAddr, logger, deps.Health)
		defer shutdownHTTP(metricsSrv, logger)
	}

	logger.WithField("storage", cfg.StorageDriver).Info("order pipeline started")
	if _, err := runDemo(ctx, deps.OrderService(), deps.Repo, out, DemoOrders()); err != nil {
		return err
	}

	if !cfg.WaitForEnter {
		return nil
	}
	return waitForEnter(ctx, in, out)
}

// waitForEnter блокируется до перевода строки (или EOF) во входном потоке либо отмены ctx.
func waitForEnter(ctx context.Context, in io.Reader, out io.Writer) error {
	if _, err := io.WriteString(out, "Press Enter to exit...\n"); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = bufio.NewReader(in).ReadString('\n')
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics и health probes.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *health.Handler) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMetricsMux(healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

func newMetricsMux(healthHandler *health.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	return mux
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
