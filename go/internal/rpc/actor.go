package rpc

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
)

// ActorHeader carries the id of the user performing the request.
const ActorHeader = "X-User-ID"

// ActorFrom returns the acting user from the request headers.
func ActorFrom(h http.Header) (uuid.UUID, error) {
	raw := strings.TrimSpace(h.Get(ActorHeader))
	if raw == "" {
		return uuid.Nil, apperr.Authorization(apperr.CodeMissingActor, "missing %s header", ActorHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Authorization(apperr.CodeMissingActor, "invalid %s header", ActorHeader)
	}
	return id, nil
}
