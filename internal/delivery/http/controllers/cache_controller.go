package controllers

import (
	"log/slog"
	"net/http"

	"courtfinder/internal/delivery/http/helpers"
	"courtfinder/internal/domain"
)

// CacheStatsResponse describes the cached availability entries.
type CacheStatsResponse struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// ClearCacheResponse reports how many entries DELETE /cache removed.
type ClearCacheResponse struct {
	Cleared int `json:"cleared"`
}

type CacheController struct {
	Logger *slog.Logger
	Cache  domain.AvailabilityCache
}

func NewCacheController(logger *slog.Logger, cache domain.AvailabilityCache) *CacheController {
	return &CacheController{
		Logger: logger,
		Cache:  cache,
	}
}

// Stats godoc
// @Summary Inspect the availability cache
// @Tags cache
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains size and keys"
// @Router /cache [get]
func (c *CacheController) Stats(w http.ResponseWriter, r *http.Request) {
	keys := c.Cache.Keys()
	if keys == nil {
		keys = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CacheStatsResponse{Size: len(keys), Keys: keys})
}

// Clear godoc
// @Summary Drop every cached availability entry
// @Tags cache
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.cleared is the number of removed entries"
// @Router /cache [delete]
func (c *CacheController) Clear(w http.ResponseWriter, r *http.Request) {
	n := c.Cache.Len()
	c.Cache.Clear()
	c.Logger.InfoContext(r.Context(), "availability cache cleared", "entries", n)
	helpers.WriteJSONSuccess(w, http.StatusOK, ClearCacheResponse{Cleared: n})
}
