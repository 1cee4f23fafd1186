package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
)

// ErrorHandler is a Gin middleware that catches unhandled errors attached to
// the context and maps them to the error taxonomy. It ensures stack traces
// are NEVER exposed to clients (security requirement).
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			// Log the internal error with full context (for debugging)
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Err(err).
				Msg("unhandled error")
			c.AbortWithStatusJSON(status, apierror.New("internal server error"))
			return
		}
		c.AbortWithStatusJSON(status, apierror.New(err.Error()))
	}
}

// StatusFor maps an error category to its HTTP status.
func StatusFor(err error) int {
	switch apierror.KindOf(err) {
	case apierror.KindValidation:
		return http.StatusUnprocessableEntity
	case apierror.KindBusinessRule:
		return http.StatusBadRequest
	case apierror.KindNotFound:
		return http.StatusNotFound
	case apierror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
