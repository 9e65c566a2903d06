package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/config"
)

// Identity is the authenticated user attached to a request
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Claims are the session token claims issued by the auth provider
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier wraps the auth provider's "get current user from request" call.
// Provider failures degrade to "no session" so unauthenticated users are
// redirected rather than crashing the request.
type Verifier struct {
	secret      []byte
	cookieName  string
	providerURL string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	logger      *logrus.Logger
}

// NewVerifier creates a session verifier
func NewVerifier(cfg config.AuthConfig, logger *logrus.Logger) *Verifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "auth-provider",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Auth provider circuit breaker state changed")
		},
	})

	return &Verifier{
		secret:      []byte(cfg.JWTSecret),
		cookieName:  cfg.CookieName,
		providerURL: cfg.ProviderURL,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.ProviderTimeout) * time.Second},
		breaker:     breaker,
		logger:      logger,
	}
}

// Verify returns the authenticated identity for a request, or nil when the
// request carries no valid session. It never returns an error: any failure,
// including a down auth provider, reads as "no session".
func (v *Verifier) Verify(r *http.Request) *Identity {
	token := v.extractToken(r)
	if token == "" {
		return nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}

	// Optional remote confirmation against the provider's userinfo endpoint
	if v.providerURL != "" {
		if !v.confirmWithProvider(token) {
			return nil
		}
	}

	return &Identity{UserID: userID, Email: claims.Email}
}

// Refresh is the unconditional session-refresh step the route guard runs
// before any routing decision. It re-issues the session cookie with a
// sliding expiry so cookies stay valid across navigations.
func (v *Verifier) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(v.cookieName)
	if err != nil || cookie.Value == "" {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     v.cookieName,
		Value:    cookie.Value,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// extractToken pulls the session token from the Authorization header or cookie
func (v *Verifier) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
	}
	if cookie, err := r.Cookie(v.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// confirmWithProvider checks the token against the provider's userinfo
// endpoint through a circuit breaker so a down provider fails fast.
func (v *Verifier) confirmWithProvider(token string) bool {
	_, err := v.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(http.MethodGet, v.providerURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := v.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
		}

		var body map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		v.logger.WithError(err).Warn("Auth provider check failed, treating as no session")
		return false
	}
	return true
}
