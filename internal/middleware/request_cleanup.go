package middleware

import (
	"io"
	"net/http"
)

// bodies larger than this are closed without reading the rest
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest consumes whatever a handler left unread in the request
// body (up to maxDrainBytes) and closes it, so keep-alive connections can be
// reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := r.Body
			next.ServeHTTP(w, r)
			if body == nil || body == http.NoBody {
				return
			}
			_, _ = io.CopyN(io.Discard, body, maxDrainBytes)
			_ = body.Close()
		})
	}
}
