package rpc

import (
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/rs/zerolog/log"
)

const (
	// ErrorCodeHeader carries the machine-readable apperr.Code.
	ErrorCodeHeader = "Error-Code"
	// ErrorKindHeader carries the apperr.Kind.
	ErrorKindHeader = "Error-Kind"
	// errorDetailPrefix prefixes every metadata entry of a domain error.
	errorDetailPrefix = "Error-Detail-"
)

// ToConnectError maps a domain error onto a Connect error. The domain code and
// metadata travel as error metadata so clients can reconstruct the rule that
// failed.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		log.Error().Err(err).Msg("internal error")
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	out := connect.NewError(connectCode(e), errors.New(e.Error()))
	out.Meta().Set(ErrorCodeHeader, string(e.Code))
	out.Meta().Set(ErrorKindHeader, string(e.Kind))
	for k, v := range e.Metadata {
		out.Meta().Set(errorDetailPrefix+k, v)
	}
	return out
}

func connectCode(e *apperr.Error) connect.Code {
	switch e.Kind {
	case apperr.KindValidation:
		return connect.CodeInvalidArgument
	case apperr.KindConflict:
		if e.Code == apperr.CodeLockUnavailable {
			return connect.CodeAborted
		}
		return connect.CodeFailedPrecondition
	case apperr.KindNotFound:
		return connect.CodeNotFound
	case apperr.KindAuthorization:
		if e.Code == apperr.CodeMissingActor {
			return connect.CodeUnauthenticated
		}
		return connect.CodePermissionDenied
	default:
		return connect.CodeInternal
	}
}

// ErrorDetails reads the domain metadata back out of Connect error metadata.
func ErrorDetails(meta http.Header) map[string]string {
	out := make(map[string]string)
	for k := range meta {
		canonical := http.CanonicalHeaderKey(k)
		if len(canonical) > len(errorDetailPrefix) && canonical[:len(errorDetailPrefix)] == errorDetailPrefix {
			out[canonical[len(errorDetailPrefix):]] = meta.Get(k)
		}
	}
	return out
}
