package rpc

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
)

// LoggingInterceptor logs every unary call with its outcome.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)
			if err != nil {
				err = ToConnectError(err)
			}

			entry := log.Debug()
			if err != nil {
				code := connect.CodeOf(err)
				entry = log.Warn()
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					entry = log.Error()
				}
				entry = entry.Err(err).Str("code", code.String())
				var ce *connect.Error
				if errors.As(err, &ce) {
					if domain := ce.Meta().Get(ErrorCodeHeader); domain != "" {
						entry = entry.Str("error_code", domain)
					}
				}
			}
			entry.
				Str("procedure", req.Spec().Procedure).
				Dur("duration", time.Since(start)).
				Msg("rpc")

			return res, err
		}
	}
}
