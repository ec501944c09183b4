// Package metrics defines the custom Prometheus metrics of the SmartRide web
// frontend: metric names, labels and help strings live here. Core services,
// the gateway and the HTTP layer all record into it.
//
// Metrics are registered with the default registry through promauto when the
// package is imported; the /metrics route serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartride"

// ── Upstream API metrics ──────────────────────────────────────────────────────

// APIRequestsTotal counts calls made to the SmartRide REST API.
// Labels:
//   - endpoint: the route template (e.g. "POST /auth/send-otp")
//   - outcome: "ok", "server_error", "network_error" or "request_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of upstream API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// APIRequestDuration measures upstream call latency.
// Label:
//   - endpoint: the route template
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of upstream API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Wizard metrics ────────────────────────────────────────────────────────────

// WizardTransitionsTotal counts state changes of the auth flows.
// Labels:
//   - flow: "login", "reset" or "register"
//   - step: the step entered (e.g. "otp_pending")
var WizardTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_transitions_total",
		Help:      "Total number of auth flow step changes, by flow and entered step.",
	},
	[]string{"flow", "step"},
)

// ActiveCooldowns tracks the number of running OTP resend countdowns.
var ActiveCooldowns = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_cooldowns",
		Help:      "Current number of OTP resend countdowns being ticked.",
	},
)

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardRedirectsTotal counts navigations the route guard redirected.
// Labels:
//   - reason: "unauthenticated", "wrong_role", "role_dispatch" or "unknown_route"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by the route guard.",
	},
	[]string{"reason"},
)

// SessionsExpiredTotal counts sessions cleared after the API rejected the
// stored credential.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions cleared after an upstream 401.",
	},
)

// ── Screen metrics ────────────────────────────────────────────────────────────

// MountedScreens tracks the number of auth flows and dashboards currently
// mounted for browser profiles.
var MountedScreens = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mounted_screens",
		Help:      "Current number of mounted screens across browser profiles.",
	},
)

// ScreensEvictedTotal counts screens closed for being idle or for exceeding
// the registry cap.
var ScreensEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screens_evicted_total",
		Help:      "Total number of screens closed by idle eviction or the mount cap.",
	},
)
