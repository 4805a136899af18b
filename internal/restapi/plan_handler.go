package restapi

import (
	"net/http"

	"wayfinder.opentransit.org/internal/models"
	"wayfinder.opentransit.org/internal/utils"
)

// planHandler serves GET /api/v1/plan. It resolves a journey between the
// fromLat/fromLon and toLat/toLon coordinates and responds with up to the
// configured maximum of ranked itineraries. An empty list is a normal
// answer, not an error.
func (api *RestAPI) planHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	fieldErrors := utils.RequireParam(queryParams, "fromLat", nil)
	fieldErrors = utils.RequireParam(queryParams, "fromLon", fieldErrors)
	fieldErrors = utils.RequireParam(queryParams, "toLat", fieldErrors)
	fieldErrors = utils.RequireParam(queryParams, "toLon", fieldErrors)

	fromLat, fieldErrors := utils.ParseFloatParam(queryParams, "fromLat", fieldErrors)
	fromLon, fieldErrors := utils.ParseFloatParam(queryParams, "fromLon", fieldErrors)
	toLat, fieldErrors := utils.ParseFloatParam(queryParams, "toLat", fieldErrors)
	toLon, fieldErrors := utils.ParseFloatParam(queryParams, "toLon", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	fieldErrors = utils.ValidateCoordinateParams(fromLat, fromLon, "fromLat", "fromLon", nil)
	fieldErrors = utils.ValidateCoordinateParams(toLat, toLon, "toLat", "toLon", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	itineraries := api.Planner.FindRoutes(
		models.LatLng{Lat: fromLat, Lng: fromLon},
		models.LatLng{Lat: toLat, Lng: toLon},
	)

	text := "OK"
	if len(itineraries) == 0 {
		text = "no routes found"
	}

	response := models.NewResponse(http.StatusOK, models.ItinerariesResponse{List: itineraries}, text)
	api.sendResponse(w, r, response)
}
