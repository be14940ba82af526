package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"courtfinder/internal/delivery/http/helpers"
	"courtfinder/internal/domain"
)

// dateRegex matches a YYYY-MM-DD date. Calendar validity is checked separately.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SearchSuccessResponse is the success response envelope for GET /search (200).
type SearchSuccessResponse struct {
	Data  []domain.ClubWithAvailability `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

type SearchController struct {
	Logger  *slog.Logger
	Service domain.SearchService
}

func NewSearchController(logger *slog.Logger, svc domain.SearchService) *SearchController {
	return &SearchController{
		Logger:  logger,
		Service: svc,
	}
}

// Search godoc
// @Summary Search court availability
// @Description Returns every club of a place with its courts and the slots available on the given date. Served from cache when possible.
// @Tags search
// @Produce json
// @Param placeId query string true "Place ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.SearchSuccessResponse "data contains clubs with availability"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /search [get]
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	placeID := q.Get("placeId")
	if placeID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "placeId is required")
		return
	}
	rawDate := q.Get("date")
	if !dateRegex.MatchString(rawDate) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be in YYYY-MM-DD format")
		return
	}
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date is not a valid calendar date")
		return
	}

	clubs, err := c.Service.Search(r.Context(), placeID, date)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if clubs == nil {
		clubs = []domain.ClubWithAvailability{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, clubs)
}
