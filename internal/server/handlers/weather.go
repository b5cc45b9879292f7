package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weathernow/internal/lookup"
	"github.com/vzahanych/weathernow/internal/server/utils"
	"go.uber.org/zap"
)

type WeatherLookuper interface {
	Lookup(ctx context.Context, query string) (*lookup.WeatherReport, error)
}

type WeatherHandler struct {
	lookup WeatherLookuper
	logger *zap.Logger
}

func NewWeatherHandler(svc WeatherLookuper, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		lookup: svc,
		logger: logger,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}
	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Invalid request parameters", zap.String("field", verrs[0].Field))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: verrs[0].Message,
		})
		return
	}

	reqLogger.Info("Processing weather request", zap.String("city", req.City))

	report, err := h.lookup.Lookup(ctx, req.City)
	if err != nil {
		status, code := errorStatus(err)
		reqLogger.Info("Weather request failed", zap.String("code", code), zap.Error(err))
		c.JSON(status, ErrorResponse{
			Error:   err.Error(),
			Code:    code,
			Details: lookup.Kind(err),
		})
		return
	}

	reqLogger.Info("Weather request completed successfully",
		zap.String("place", report.Place.Name),
		zap.String("country", report.Place.Country),
		zap.Int("forecast_days", len(report.Forecast)))

	c.JSON(http.StatusOK, report)
}

func errorStatus(err error) (int, string) {
	switch lookup.Kind(err) {
	case lookup.OutcomeEmptyQuery:
		return http.StatusBadRequest, "EMPTY_QUERY"
	case lookup.OutcomeLocationNotFound:
		return http.StatusNotFound, "LOCATION_NOT_FOUND"
	case lookup.OutcomeNoMatchingLocation:
		return http.StatusNotFound, "NO_MATCHING_LOCATION"
	case lookup.OutcomeUpstreamError:
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
