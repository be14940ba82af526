package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"courtfinder/internal/delivery/http/helpers"
	"courtfinder/internal/domain"
	"courtfinder/internal/intake"
)

// maxEventBody caps the size of a POST /events body.
const maxEventBody = 64 << 10

// ProcessedResponse is the data returned once a change event has been handled.
type ProcessedResponse struct {
	Status string `json:"status"`
}

// ProcessEventSuccessResponse is the success response envelope for POST /events (200).
type ProcessEventSuccessResponse struct {
	Data  ProcessedResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventsController struct {
	Logger  *slog.Logger
	Handler domain.ChangeEventHandler
}

func NewEventsController(logger *slog.Logger, handler domain.ChangeEventHandler) *EventsController {
	return &EventsController{
		Logger:  logger,
		Handler: handler,
	}
}

// Process godoc
// @Summary Ingest an upstream change event
// @Description Accepts booking_created, booking_cancelled, club_updated and court_updated events. Evicts affected cached availability and publishes a notification.
// @Tags events
// @Accept json
// @Produce json
// @Param event body intake.ExternalEvent true "Change event"
// @Success 200 {object} controllers.ProcessEventSuccessResponse "data.status is processed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventsController) Process(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBody)
	var req intake.ExternalEvent
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Handler.Handle(r.Context(), req.ToDomain()); err != nil {
		if errors.Is(err, domain.ErrUnknownEventType) || errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "type", req.Type, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ProcessedResponse{Status: "processed"})
}
