// Package handler exposes the reservation API as a single serverless function.
package handler

import (
	"net/http"
	"sync"

	"rolloff/config"
	"rolloff/di"
	"rolloff/shared/logger"
)

// app is built on the first invocation and reused while the function instance stays warm.
var app = sync.OnceValue(func() http.Handler {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	// Rewrites from the platform router leave RequestURI pointing at the function path.
	r.RequestURI = r.URL.RequestURI()

	app().ServeHTTP(w, r)
}
