package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware returns the CORS policy for the web and mobile clients.
// An empty origin list allows every origin.
func CORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		ExposedHeaders: []string{
			"X-Request-Id",
		},
		AllowCredentials: false,
		// Cache preflight requests for 5 minutes
		MaxAge: 300,
	})
}
