package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error for callers deciding how to react.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindConflict      Kind = "CONFLICT"
	KindNotFound      Kind = "NOT_FOUND"
	KindAuthorization Kind = "AUTHORIZATION"
	KindInternal      Kind = "INTERNAL"
)

// Code is a machine-readable reason attached to every domain error.
type Code string

const (
	// Validation
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeQuotaExceeded        Code = "REGION_QUOTA_EXCEEDED"
	CodePlayerLocked         Code = "PLAYER_LOCKED"
	CodePlayerAlreadyDrafted Code = "PLAYER_ALREADY_DRAFTED"
	CodePlayerNotOnTeam      Code = "PLAYER_NOT_ON_TEAM"
	CodePlayerRostered       Code = "PLAYER_ALREADY_ROSTERED"
	CodeTradeSideTooLarge    Code = "TRADE_SIDE_TOO_LARGE"
	CodeTradeEmpty           Code = "TRADE_EMPTY"
	CodeTradeDuplicatePlayer Code = "TRADE_DUPLICATE_PLAYER"
	CodeTradeSameTeam        Code = "TRADE_SAME_TEAM"
	CodeTradeCrossGame       Code = "TRADE_TEAMS_DIFFERENT_GAME"
	CodeDraftNoParticipants  Code = "DRAFT_NO_PARTICIPANTS"

	// Conflict
	CodeNotYourTurn         Code = "NOT_YOUR_TURN"
	CodeDraftNotInProgress  Code = "DRAFT_NOT_IN_PROGRESS"
	CodeDraftInvalidState   Code = "DRAFT_INVALID_STATE"
	CodeDraftExists         Code = "DRAFT_ALREADY_EXISTS"
	CodeDraftFinished       Code = "DRAFT_FINISHED"
	CodeNoEligiblePlayer    Code = "NO_ELIGIBLE_PLAYER"
	CodeTradeNotPending     Code = "TRADE_NOT_PENDING"
	CodeTradingDisabled     Code = "TRADING_DISABLED"
	CodeTradeDeadlinePassed Code = "TRADE_DEADLINE_PASSED"
	CodeTradeCapReached     Code = "TRADE_CAP_REACHED"
	CodeLockUnavailable     Code = "LOCK_UNAVAILABLE"
	CodeUniqueViolation     Code = "UNIQUE_VIOLATION"

	// NotFound
	CodeDraftNotFound       Code = "DRAFT_NOT_FOUND"
	CodeTradeNotFound       Code = "TRADE_NOT_FOUND"
	CodeTeamNotFound        Code = "TEAM_NOT_FOUND"
	CodePlayerNotFound      Code = "PLAYER_NOT_FOUND"
	CodeGameNotFound        Code = "GAME_NOT_FOUND"
	CodeParticipantNotFound Code = "PARTICIPANT_NOT_FOUND"

	// Authorization
	CodeNotTeamOwner   Code = "NOT_TEAM_OWNER"
	CodeNotGameCreator Code = "NOT_GAME_CREATOR"
	CodeMissingActor   Code = "MISSING_ACTING_USER"

	CodeInternal Code = "INTERNAL"
)

// Error is the structured domain error returned by the engines.
type Error struct {
	Kind     Kind
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+e.Metadata[k])
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// With returns the error with an extra metadata entry.
func (e *Error) With(key, value string) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

func newError(kind Kind, code Code, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Validation(code Code, format string, args ...any) *Error {
	return newError(KindValidation, code, format, args...)
}

func Conflict(code Code, format string, args ...any) *Error {
	return newError(KindConflict, code, format, args...)
}

func NotFound(code Code, format string, args ...any) *Error {
	return newError(KindNotFound, code, format, args...)
}

func Authorization(code Code, format string, args ...any) *Error {
	return newError(KindAuthorization, code, format, args...)
}

func Internal(cause error, format string, args ...any) *Error {
	return newError(KindInternal, CodeInternal, format, args...).Wrap(cause)
}

// As extracts the *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// IsRetryable reports whether re-reading state and retrying could succeed.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
