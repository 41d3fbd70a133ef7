package mid

import (
	"context"
	"net/http"
	"slices"

	"github.com/ardanlabs/powchain/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// A "*" entry allows every origin. Preflight requests are answered here and
// never reach the handler.
func Cors(origins []string) web.Middleware {
	allowAll := slices.Contains(origins, "*")

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding")

			if r.Method == http.MethodOptions {
				web.SetStatusCode(ctx, http.StatusNoContent)
				w.WriteHeader(http.StatusNoContent)
				return nil
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
