package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantfold/finkit/dispatch"
	apperrors "github.com/quantfold/finkit/errors"
	"github.com/quantfold/finkit/server/middleware"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries response provenance: which provider produced the payload
// and whether it came from cache.
type Meta struct {
	Provider  string  `json:"provider,omitempty"`
	CacheHit  bool    `json:"cache_hit"`
	CacheAgeS float64 `json:"cache_age_s,omitempty"`
	ElapsedMS int64   `json:"elapsed_ms"`
	RequestID string  `json:"request_id,omitempty"`
}

// respondResult sends a 200 wrapping a dispatch result with provenance.
func respondResult(c *gin.Context, res *dispatch.Result) {
	c.JSON(http.StatusOK, DataResponse{
		Data: res.Value,
		Meta: &Meta{
			Provider:  res.Provider,
			CacheHit:  res.CacheHit,
			CacheAgeS: res.CacheAge.Seconds(),
			ElapsedMS: res.Elapsed.Milliseconds(),
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// respondOK sends a 200 wrapping data without provenance.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// respondError derives status and body from an AppError; anything else
// becomes a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}
