// Package metrics defines and registers the custom Prometheus metrics for the
// admin API. It is the single source of truth for metric names, labels, and
// help strings; registration happens at import time via promauto.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

const namespace = "adminapi"

// CRUDRequestsTotal counts generated-route invocations.
// Labels:
//   - resource: registry name (service, category, type, order, user)
//   - action: create, retrieve, update, delete, list
//   - outcome: ok, denied, not_found, unprocessable, error
var CRUDRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crud_requests_total",
		Help:      "Total number of CRUD operations, by resource, action and outcome.",
	},
	[]string{"resource", "action", "outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// Outcome maps an operation error to its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccessDenied):
		return "denied"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnprocessable):
		return "unprocessable"
	default:
		return "error"
	}
}
