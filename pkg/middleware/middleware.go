package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campusmarket/metrics"
	"campusmarket/pkg/apperror"
	"campusmarket/pkg/logger"
)

// CallFunc is one outgoing API call: marshal requestBody, hit endpoint,
// decode into response.
type CallFunc func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error

// Middleware wraps a CallFunc the way http middleware wraps handlers.
type Middleware func(next CallFunc) CallFunc

// Chain applies middlewares so the first argument is the outermost wrapper.
func Chain(call CallFunc, middlewares ...Middleware) CallFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		call = middlewares[i](call)
	}
	return call
}

// Logging logs every call with its outcome.
func Logging(log logger.Logger) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			err := next(ctx, method, endpoint, requestBody, response)
			if err != nil {
				log.Log("%s %s failed: %v", method, endpoint, err)
				return err
			}
			log.Log("%s %s ok", method, endpoint)
			return nil
		}
	}
}

// Prometheus records counters and durations for every call.
func Prometheus() Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			start := time.Now()
			err := next(ctx, method, endpoint, requestBody, response)
			metrics.RecordAPIRequest(method, endpoint, statusOf(err), time.Since(start))
			return err
		}
	}
}

// statusOf recovers the HTTP status from the error taxonomy; a clean call
// counts as 200.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var fe *apperror.FetchError
	if errors.As(err, &fe) && fe.Status != 0 {
		return fe.Status
	}
	return 0
}
