package restapi

import (
	"net/http"

	"wayfinder.opentransit.org/internal/models"
)

// statusHandler serves GET /api/v1/status with the engine state and the
// load counters, including how many rows and records were dropped.
func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	response := models.NewOKResponse(api.GtfsManager.Status())
	api.sendResponse(w, r, response)
}
