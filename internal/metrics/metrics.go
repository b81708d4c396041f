// Package metrics exposes the Prometheus scrape endpoint. Collectors live
// on the default registry, which already carries the Go and process
// collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skysurvey-io/sia-obscore/internal/observability"
)

func Handler(version string) http.Handler {
	observability.ExposeBuildInfo(version)
	return promhttp.Handler()
}
