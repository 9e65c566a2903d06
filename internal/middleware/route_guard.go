package middleware

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/auth"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/config"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/metrics"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/tenancy"
)

// GuardAction is the routing decision class for an inbound request
type GuardAction int

const (
	// GuardPass forwards the request unmodified (aside from header injection)
	GuardPass GuardAction = iota
	// GuardRedirect answers with a client-visible redirect
	GuardRedirect
	// GuardRewrite silently dispatches the request to a different path
	GuardRewrite
)

// String names the action for logging and metrics labels
func (a GuardAction) String() string {
	switch a {
	case GuardRedirect:
		return "redirect"
	case GuardRewrite:
		return "rewrite"
	default:
		return "pass"
	}
}

// GuardDecision is the outcome of evaluating one request at the edge
type GuardDecision struct {
	Action GuardAction
	// Target is the redirect location or rewritten path
	Target string
	// SchoolSubdomain, when non-empty, is injected as x-school-subdomain
	SchoolSubdomain string
}

// adminAllowedPrefixes are the path prefixes the back-office subdomain serves
var adminAllowedPrefixes = []string{"/admin", "/auth", "/sales", "/login", "/_next", "/api"}

// EvaluateRoute decides how to dispatch a request based on its hostname
// class and path. It is a pure function with no side effects; the caller
// applies the decision. The adminSubdomain names the back-office subdomain;
// empty falls back to the default.
func EvaluateRoute(host, path, override, adminSubdomain string) GuardDecision {
	if tenancy.IsLocalhost(host) {
		// No blocking rules in local development. The override query
		// parameter stands in for production header injection.
		return GuardDecision{Action: GuardPass, SchoolSubdomain: override}
	}

	if adminSubdomain == "" {
		adminSubdomain = tenancy.SubdomainAdmin
	}

	// The override is a localhost-only convenience; on real hosts the
	// hostname alone decides the class.
	subdomain := tenancy.ParseSubdomain(host, "")

	switch subdomain {
	case "":
		// Root marketing domain (and the www alias)
		if strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/dashboard") {
			return GuardDecision{Action: GuardRedirect, Target: "/"}
		}
		return GuardDecision{Action: GuardPass}

	case adminSubdomain:
		if path == "/" {
			return GuardDecision{Action: GuardRewrite, Target: "/admin"}
		}
		for _, prefix := range adminAllowedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return GuardDecision{Action: GuardPass}
			}
		}
		return GuardDecision{Action: GuardRedirect, Target: "/admin"}

	default:
		if path == "/" {
			return GuardDecision{Action: GuardRewrite, Target: "/dashboard", SchoolSubdomain: subdomain}
		}
		if strings.HasPrefix(path, "/admin") {
			return GuardDecision{Action: GuardRedirect, Target: "/dashboard", SchoolSubdomain: subdomain}
		}
		return GuardDecision{Action: GuardPass, SchoolSubdomain: subdomain}
	}
}

// RouteGuard is the edge handler wrapping the application router. It
// refreshes the session cookie, evaluates the hostname/path state machine,
// and injects the school subdomain header before dispatch.
type RouteGuard struct {
	verifier       *auth.Verifier
	adminSubdomain string
	next           http.Handler
	logger         *logrus.Logger
}

// NewRouteGuard wraps next with edge routing rules
func NewRouteGuard(verifier *auth.Verifier, domain config.DomainConfig, next http.Handler, logger *logrus.Logger) *RouteGuard {
	return &RouteGuard{
		verifier:       verifier,
		adminSubdomain: domain.AdminSubdomain,
		next:           next,
		logger:         logger,
	}
}

func (g *RouteGuard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Session refresh runs unconditionally before any routing decision
	g.verifier.Refresh(w, r)

	override := r.URL.Query().Get(tenancy.QueryParamSubdomain)
	decision := EvaluateRoute(r.Host, r.URL.Path, override, g.adminSubdomain)

	if decision.SchoolSubdomain != "" {
		r.Header.Set(tenancy.HeaderSchoolSubdomain, decision.SchoolSubdomain)
	}

	metrics.GuardDecisions.WithLabelValues(decision.Action.String()).Inc()

	switch decision.Action {
	case GuardRedirect:
		g.logger.WithFields(logrus.Fields{
			"host":   r.Host,
			"path":   r.URL.Path,
			"target": decision.Target,
		}).Debug("Edge redirect")
		http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
		return

	case GuardRewrite:
		g.logger.WithFields(logrus.Fields{
			"host":   r.Host,
			"path":   r.URL.Path,
			"target": decision.Target,
		}).Debug("Edge rewrite")
		r.URL.Path = decision.Target
	}

	g.next.ServeHTTP(w, r)
}
