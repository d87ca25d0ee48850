package rpc

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code connect.Code
	}{
		{name: "validation", err: apperr.Validation(apperr.CodeQuotaExceeded, "over"), code: connect.CodeInvalidArgument},
		{name: "conflict", err: apperr.Conflict(apperr.CodeNotYourTurn, "wait"), code: connect.CodeFailedPrecondition},
		{name: "lock", err: apperr.Conflict(apperr.CodeLockUnavailable, "busy"), code: connect.CodeAborted},
		{name: "not found", err: fmt.Errorf("load: %w", apperr.NotFound(apperr.CodeTradeNotFound, "gone")), code: connect.CodeNotFound},
		{name: "forbidden", err: apperr.Authorization(apperr.CodeNotTeamOwner, "no"), code: connect.CodePermissionDenied},
		{name: "unauthenticated", err: apperr.Authorization(apperr.CodeMissingActor, "who"), code: connect.CodeUnauthenticated},
		{name: "foreign", err: errors.New("db down"), code: connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToConnectError(tt.err)
			if code := connect.CodeOf(got); code != tt.code {
				t.Fatalf("code = %v, want %v", code, tt.code)
			}
		})
	}
}

func TestToConnectErrorCarriesMetadata(t *testing.T) {
	err := apperr.Validation(apperr.CodeQuotaExceeded, "over").With("region", "EU").With("max", "2")

	var ce *connect.Error
	if !errors.As(ToConnectError(err), &ce) {
		t.Fatal("expected a connect error")
	}
	if got := ce.Meta().Get(ErrorCodeHeader); got != string(apperr.CodeQuotaExceeded) {
		t.Fatalf("%s = %q", ErrorCodeHeader, got)
	}
	details := ErrorDetails(ce.Meta())
	if details["Region"] != "EU" || details["Max"] != "2" {
		t.Fatalf("details = %v", details)
	}
}

func TestToConnectErrorHidesInternals(t *testing.T) {
	var ce *connect.Error
	if !errors.As(ToConnectError(errors.New("password=hunter2")), &ce) {
		t.Fatal("expected a connect error")
	}
	if ce.Message() != "internal error" {
		t.Fatalf("message = %q", ce.Message())
	}
}

func TestActorFrom(t *testing.T) {
	id := uuid.New()
	h := http.Header{}
	h.Set(ActorHeader, id.String())
	got, err := ActorFrom(h)
	if err != nil || got != id {
		t.Fatalf("ActorFrom = %v, %v", got, err)
	}

	for _, raw := range []string{"", "not-a-uuid", uuid.Nil.String()} {
		h := http.Header{}
		h.Set(ActorHeader, raw)
		if _, err := ActorFrom(h); apperr.CodeOf(err) != apperr.CodeMissingActor {
			t.Fatalf("ActorFrom(%q) = %v, want %s", raw, err, apperr.CodeMissingActor)
		}
	}
}

func TestValidate(t *testing.T) {
	type req struct {
		DraftID string   `validate:"required,uuid"`
		Players []string `validate:"max=2,dive,uuid"`
	}
	if err := Validate(req{DraftID: uuid.NewString()}); err != nil {
		t.Fatalf("Validate valid = %v", err)
	}
	err := Validate(req{Players: []string{"x"}})
	if apperr.CodeOf(err) != apperr.CodeInvalidInput {
		t.Fatalf("Validate = %v, want %s", err, apperr.CodeInvalidInput)
	}
	e, _ := apperr.As(err)
	if e.Metadata["fields"] == "" {
		t.Fatal("expected offending fields in metadata")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	type msg struct {
		A string `json:"a"`
	}
	var c Codec
	b, err := c.Marshal(msg{A: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var out msg
	if err := c.Unmarshal(b, &out); err != nil || out.A != "x" {
		t.Fatalf("Unmarshal = %+v, %v", out, err)
	}
	if err := c.Unmarshal(nil, &out); err != nil {
		t.Fatalf("empty body = %v", err)
	}
}
