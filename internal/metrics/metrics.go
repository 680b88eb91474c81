// Package metrics counts migration outcomes and pushes them to a Pushgateway.
package metrics

import (
	"StoreImport/internal/migrate"
	"StoreImport/internal/migrate/outcome"
	"StoreImport/internal/source"
	"StoreImport/pkg/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "storeimport"

// Collector is a migrate.Observer backed by its own registry.
type Collector struct {
	registry    *prometheus.Registry
	records     *prometheus.CounterVec
	runErrors   *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

var _ migrate.Observer = (*Collector)(nil)

func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Source records processed, by record kind and outcome.",
		}, []string{"kind", "source", "outcome"}),
		runErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_errors_total",
			Help:      "Errors caught by migration runs.",
		}, []string{"source"}),
		duration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last migration run.",
		}, []string{"source"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_last_success_timestamp_seconds",
			Help:      "Finish time of the last run without errors.",
		}, []string{"source"}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Observe(kind string, src source.Kind, o outcome.Outcome) {
	c.records.WithLabelValues(kind, src.String(), o.String()).Inc()
}

func (c *Collector) Finished(res *migrate.Result) {
	c.runErrors.WithLabelValues(res.Source).Add(float64(len(res.Errors)))
	c.duration.WithLabelValues(res.Source).Set(res.Duration().Seconds())
	if res.OK() {
		c.lastSuccess.WithLabelValues(res.Source).Set(float64(res.FinishedAt.Unix()))
	}
}

// Push replaces the job's metrics on the Pushgateway at url.
func (c *Collector) Push(url, job string) error {
	logger := logging.GetLogger()
	logger.Info("Start Push")
	defer logger.Info("End Push")

	if err := push.New(url, job).Gatherer(c.registry).Push(); err != nil {
		return errors.Wrapf(err, "failed push metrics to %s", url)
	}
	return nil
}
