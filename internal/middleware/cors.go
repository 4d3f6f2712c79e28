package middleware

import (
	"net/http"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// Cors wraps the whole router: preflight requests are answered here and
// never reach mux.
func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
		AllowCredentials: true,
		Logger:           corsLogger{},
	})
	return c.Handler
}

type corsLogger struct{}

func (corsLogger) Printf(format string, v ...interface{}) {
	log.Tracef("cors: "+format, v...)
}
