package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy controls which browser origins may call the API.
type CORSPolicy struct {
	// Origins is the allow-list; "*" admits any origin.
	Origins []string
	// Methods reports what a path serves. Preflights for paths it returns
	// nil for are answered 404.
	Methods func(path string) []string
	Headers []string
	MaxAge  time.Duration
}

// NewCORSPolicy admits origins for the routes NewRouter serves.
func NewCORSPolicy(origins []string) CORSPolicy {
	return CORSPolicy{
		Origins: origins,
		Methods: AllowedMethods,
		Headers: []string{"Content-Type"},
		MaxAge:  10 * time.Minute,
	}
}

// CORS applies policy in front of next. Preflights are answered here and
// never reach next.
func CORS(policy CORSPolicy, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(policy.Origins))
	for _, origin := range policy.Origins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[origin] = struct{}{}
		}
	}
	allowHeaders := strings.Join(policy.Headers, ", ")
	maxAge := strconv.Itoa(int(policy.MaxAge / time.Second))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		_, ok := allowed[origin]
		ok = ok || allowAll
		requested := r.Header.Get("Access-Control-Request-Method")
		preflight := r.Method == http.MethodOptions && requested != ""

		if !ok {
			if preflight {
				writeError(w, http.StatusForbidden, codeForbidden, "origin not allowed")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		if !preflight {
			next.ServeHTTP(w, r)
			return
		}

		var methods []string
		if policy.Methods != nil {
			methods = policy.Methods(r.URL.Path)
		}
		if len(methods) == 0 {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if !allows(methods, requested) {
			writeMethodNotAllowed(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(append(methods, http.MethodOptions), ", "))
		if allowHeaders != "" {
			w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		}
		if policy.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", maxAge)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
