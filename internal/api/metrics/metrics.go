// Package metrics defines and registers all custom Prometheus metrics
// for the library API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package
// init; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully registered users.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of users registered.",
	},
)

// CatalogMutationsTotal counts catalog writes.
// Label:
//   - op: "add" (one increment per book inserted), "update", or "delete"
var CatalogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_mutations_total",
		Help:      "Total number of catalog mutations, by operation.",
	},
	[]string{"op"},
)

// CatalogDedupTotal counts idempotency decisions on bulk imports.
// Label:
//   - result: "hit" (replayed key, skipped) or "miss" (new key, inserted)
var CatalogDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_dedup_total",
		Help:      "Total number of bulk-import idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// BooksIssuedTotal counts successful issue transitions.
var BooksIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_issued_total",
		Help:      "Total number of copies issued to borrowers.",
	},
)

// BooksReturnedTotal counts successful return transitions.
var BooksReturnedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_returned_total",
		Help:      "Total number of copies returned.",
	},
)
