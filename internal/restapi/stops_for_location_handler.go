package restapi

import (
	"net/http"

	"wayfinder.opentransit.org/internal/models"
	"wayfinder.opentransit.org/internal/utils"
)

type nearbyStopEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distanceKm"`
}

// stopsForLocationHandler serves GET /api/v1/stops-for-location: the
// closest stops to a coordinate, nearest first. radius is in kilometres
// and maxCount caps the list; both fall back to the engine defaults.
func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	fieldErrors := utils.RequireParam(queryParams, "lat", nil)
	fieldErrors = utils.RequireParam(queryParams, "lon", fieldErrors)

	lat, fieldErrors := utils.ParseFloatParam(queryParams, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(queryParams, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(queryParams, "radius", fieldErrors)
	maxCount, fieldErrors := utils.ParseIntParam(queryParams, "maxCount", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	fieldErrors = utils.ValidateCoordinateParams(lat, lon, "lat", "lon", nil)
	if err := utils.ValidateRadiusKm(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	nearby := api.GtfsManager.StopsNearby(lat, lon, maxCount, radius)

	entries := make([]nearbyStopEntry, 0, len(nearby))
	for _, ns := range nearby {
		entries = append(entries, nearbyStopEntry{
			ID:         ns.Stop.ID,
			Name:       ns.Stop.Name,
			Lat:        ns.Stop.Lat,
			Lon:        ns.Stop.Lon,
			DistanceKm: ns.DistanceKm,
		})
	}

	response := models.NewOKResponse(struct {
		List []nearbyStopEntry `json:"list"`
	}{List: entries})
	api.sendResponse(w, r, response)
}
