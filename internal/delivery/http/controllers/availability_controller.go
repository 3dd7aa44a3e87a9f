package controllers

import (
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fieldbooking/internal/delivery/http/helpers"
	"fieldbooking/internal/domain"
)

// AvailabilityListResponse is the data of the discovery list endpoints.
type AvailabilityListResponse struct {
	Items      []domain.AvailabilityEntry `json:"items"`
	Pagination helpers.PaginationMeta     `json:"pagination"`
}

// AvailabilityListSuccessResponse is the success envelope for GET /availability and /availability/near.
type AvailabilityListSuccessResponse struct {
	Data  AvailabilityListResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// FieldSummaryListResponse is the data of GET /availability/fields.
type FieldSummaryListResponse struct {
	Items      []domain.FieldSummary  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// FieldSummaryListSuccessResponse is the success envelope for GET /availability/fields.
type FieldSummaryListSuccessResponse struct {
	Data  FieldSummaryListResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type AvailabilityController struct {
	Logger  *slog.Logger
	Service domain.AvailabilityService
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		Logger:  logger,
		Service: svc,
	}
}

// ListAvailable godoc
// @Summary Discover events with free slots
// @Description Lists non-terminal events from the availability index. Results may lag the authoritative store slightly.
// @Tags availability
// @Produce json
// @Param field_type query string false "futbol5, futbol7 or futbol11"
// @Param date query string false "today, tomorrow or week"
// @Param lat query number false "Query point latitude"
// @Param lng query number false "Query point longitude"
// @Param radius_km query number false "Radius around the query point"
// @Param strict query bool false "Drop events whose field has no coordinates"
// @Param max_price query number false "Maximum price per player"
// @Param min_free_slots query int false "Minimum available spaces"
// @Param q query string false "Accent and case insensitive text over title, business name and address"
// @Param include_started query bool false "Also list events already in progress"
// @Param sort query string false "time (default) or distance"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.AvailabilityListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /availability [get]
func (c *AvailabilityController) ListAvailable(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	page, err := helpers.ParsePagination(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	entries, err := c.Service.ListAvailable(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Page(entries, page)
	helpers.WriteJSONSuccess(w, http.StatusOK, AvailabilityListResponse{Items: items, Pagination: meta})
}

// ListNear godoc
// @Summary Discover events near a point
// @Description Strict radius search sorted by distance. lat, lng and radius_km are required; other filters as in GET /availability.
// @Tags availability
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number true "Radius in kilometres"
// @Param field_type query string false "futbol5, futbol7 or futbol11"
// @Param date query string false "today, tomorrow or week"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.AvailabilityListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /availability/near [get]
func (c *AvailabilityController) ListNear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if filter.Location == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "lat and lng are required")
		return
	}
	page, err := helpers.ParsePagination(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	entries, err := c.Service.ListNear(r.Context(), *filter.Location, filter.RadiusKm, filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Page(entries, page)
	helpers.WriteJSONSuccess(w, http.StatusOK, AvailabilityListResponse{Items: items, Pagination: meta})
}

// GroupByField godoc
// @Summary Discover fields with open events
// @Description Groups the filtered events by hosting field with the total of open slots and the next event time. Accepts the filters of GET /availability.
// @Tags availability
// @Produce json
// @Param field_type query string false "futbol5, futbol7 or futbol11"
// @Param date query string false "today, tomorrow or week"
// @Param lat query number false "Query point latitude"
// @Param lng query number false "Query point longitude"
// @Param radius_km query number false "Radius around the query point"
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} controllers.FieldSummaryListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /availability/fields [get]
func (c *AvailabilityController) GroupByField(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	page, err := helpers.ParsePagination(r.URL.Query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	groups, err := c.Service.GroupByField(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Page(groups, page)
	helpers.WriteJSONSuccess(w, http.StatusOK, FieldSummaryListResponse{Items: items, Pagination: meta})
}

// parseFilter reads the discovery predicates from the query string. Malformed
// values are validation errors; consistency is checked by the service.
func parseFilter(q url.Values) (domain.AvailabilityFilter, error) {
	var f domain.AvailabilityFilter
	var err error

	if s := q.Get("field_type"); s != "" {
		if f.FieldType, err = domain.ParseFieldType(s); err != nil {
			return f, err
		}
	}
	if f.DateBucket, err = domain.ParseDateBucket(q.Get("date")); err != nil {
		return f, err
	}
	if f.Sort, err = domain.ParseSortOrder(q.Get("sort")); err != nil {
		return f, err
	}

	lat, hasLat, err := floatParam(q, "lat")
	if err != nil {
		return f, err
	}
	lng, hasLng, err := floatParam(q, "lng")
	if err != nil {
		return f, err
	}
	switch {
	case hasLat && hasLng:
		f.Location = &domain.GeoPoint{Lat: lat, Lng: lng}
	case hasLat || hasLng:
		return f, domain.NewValidationError("lat and lng must be given together")
	}
	if f.RadiusKm, _, err = floatParam(q, "radius_km"); err != nil {
		return f, err
	}
	if price, ok, err := floatParam(q, "max_price"); err != nil {
		return f, err
	} else if ok {
		f.MaxPrice = &price
	}
	if s := q.Get("min_free_slots"); s != "" {
		if f.MinFreeSlots, err = strconv.Atoi(s); err != nil {
			return f, domain.NewValidationError("min_free_slots must be an integer")
		}
	}
	if f.StrictRadius, err = boolParam(q, "strict"); err != nil {
		return f, err
	}
	if f.IncludeStarted, err = boolParam(q, "include_started"); err != nil {
		return f, err
	}
	f.Text = strings.TrimSpace(q.Get("q"))
	return f, nil
}

func floatParam(q url.Values, name string) (float64, bool, error) {
	s := q.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, domain.NewValidationError("%s must be a finite number", name)
	}
	return v, true, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, domain.NewValidationError("%s must be true or false", name)
	}
	return v, nil
}
