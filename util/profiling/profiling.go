package profiling

import (
	"net"
	"net/http"

	// Required for profiling
	_ "net/http/pprof"

	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
	"github.com/kaspanet/ghostdagsim/util/panics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Start starts the profiling server. Besides the pprof endpoints it
// serves the metrics collected by gatherer under /metrics.
func Start(port string, gatherer prometheus.Gatherer, log *logger.Logger) {
	spawn := panics.GoroutineWrapperFunc(log)
	spawn(func() {
		listenAddr := net.JoinHostPort("", port)
		log.Infof("Profile server listening on %s", listenAddr)
		http.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		profileRedirect := http.RedirectHandler("/debug/pprof", http.StatusSeeOther)
		http.Handle("/", profileRedirect)
		log.Error(http.ListenAndServe(listenAddr, nil))
	})
}
