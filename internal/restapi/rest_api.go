package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wayfinder.opentransit.org/internal/app"
)

type RestAPI struct {
	*app.Application
}

func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{Application: app}
}

// Routes builds the public HTTP surface of the journey engine.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/api/v1/plan", api.planHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/stops-for-location", api.stopsForLocationHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/stop/:id", api.stopHandler)
	router.HandlerFunc(http.MethodGet, "/api/v1/status", api.statusHandler)

	handler := securityHeaders(router)
	handler = CompressionMiddleware(handler)
	return api.requestLoggingMiddleware(handler)
}
