package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wayfinder.opentransit.org/internal/models"
)

type stopEntry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	RouteIDs []string `json:"routeIds"`
}

// stopHandler serves GET /api/v1/stop/:id with the stop record and the
// routes that touch it.
func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")

	stop, ok := api.GtfsManager.StopByID(id)
	if !ok {
		api.notFoundResponse(w, r)
		return
	}

	routeIDs := api.GtfsManager.RoutesForStop(id)
	if routeIDs == nil {
		routeIDs = []string{}
	}

	response := models.NewOKResponse(stopEntry{
		ID:       stop.ID,
		Name:     stop.Name,
		Lat:      stop.Lat,
		Lon:      stop.Lon,
		RouteIDs: routeIDs,
	})
	api.sendResponse(w, r, response)
}
