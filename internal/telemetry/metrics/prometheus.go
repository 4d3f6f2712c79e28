package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// SetupPrometheus returns a fresh registry with the runtime collectors and
// any extra ones (e.g. the pgx pool collector). A collector that fails to
// register is logged and skipped instead of taking the service down.
func SetupPrometheus(extraCollectors ...prometheus.Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	all := append([]prometheus.Collector{
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}, extraCollectors...)

	for _, c := range all {
		if err := registry.Register(c); err != nil {
			log.Errorf("register prometheus collector: %s", err)
		}
	}

	return registry
}
