package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fintrack-api/internal/config"
	"fintrack-api/pkg/logger"
)

// ProviderAuth validates bearer tokens against the external identity provider
// that owns users and sessions. On success the provider's user id is placed in
// the request context; every downstream query is scoped by it.
type ProviderAuth struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	skipAuth   bool
	mockUserID string
	log        logger.Logger
}

type contextKey int

const userIDKey contextKey = iota

type userInfoResponse struct {
	ID   string `json:"id"`
	Sub  string `json:"sub"`
	User struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

func NewProviderAuth(cfg config.AuthConfig, log logger.Logger) *ProviderAuth {
	return &ProviderAuth{
		baseURL:    strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:     cfg.APIKey,
		client:     &http.Client{Timeout: cfg.Timeout},
		skipAuth:   cfg.SkipAuth,
		mockUserID: strings.TrimSpace(cfg.MockUserID),
		log:        log,
	}
}

func (a *ProviderAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUserID == "" {
				writeAuthError(w, http.StatusInternalServerError, "Internal Server Error", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), a.mockUserID)))
			return
		}

		if a.baseURL == "" || a.apiKey == "" {
			writeAuthError(w, http.StatusInternalServerError, "Internal Server Error", "auth provider not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.baseURL+"/auth/v1/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("apikey", a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			a.log.BusinessError("auth: provider request failed", err)
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var payload userInfoResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			unauthorized(w)
			return
		}

		userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
		if userID == "" {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	writeAuthError(w, http.StatusUnauthorized, "Unauthorized", "You must be logged in to access this resource")
}

func writeAuthError(w http.ResponseWriter, status int, errLabel, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errLabel,
		"message": message,
	})
}
