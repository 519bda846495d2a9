package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/apierror"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const internalErrorMsg = "Errore interno del server"

// ErrorHandler answers the last error a handler attached with c.Error.
// Handlers never write service failures themselves; this is the one place
// that maps them to a status and an apierror body. Store and unknown errors
// are logged and answered with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if c.Writer.Written() {
			// a body is already out; only record the failure
			logFailure(c, err).Msg("error after response was written")
			return
		}
		status, body := mapError(c, err)
		c.AbortWithStatusJSON(status, body)
	}
}

func mapError(c *gin.Context, err error) (int, interface{}) {
	var verr *service.ValidationError
	var serr *service.StoreError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, apierror.NewFieldError(verr.Field, verr.Msg)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, apierror.New("Risorsa non trovata")
	case errors.As(err, &serr):
		logFailure(c, serr.Err).Str("op", serr.Op).Msg("store error")
	default:
		logFailure(c, err).Msg("unhandled error")
	}
	return http.StatusInternalServerError, apierror.New(internalErrorMsg)
}

func logFailure(c *gin.Context, err error) *zerolog.Event {
	return log.Error().
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Err(err)
}

// Recovery turns a panic into a 500 without echoing the panic value.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(internalErrorMsg))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. Server errors log at error level,
// client errors at warn, the rest at info.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
