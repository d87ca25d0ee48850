package rpc

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
)

var validate = validator.New()

// ParseID parses a required uuid request field.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation(apperr.CodeInvalidInput, "%s must be a uuid", field).With("field", field)
	}
	return id, nil
}

// ParseIDs parses a list of uuid request fields.
func ParseIDs(field string, raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := ParseID(field, r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Validate checks a request struct's `validate` tags.
func Validate(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(apperr.CodeInvalidInput, "invalid request").Wrap(err)
	}

	var problems []string
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields = append(fields, field)
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "uuid", "uuid4":
			problems = append(problems, field+" must be a uuid")
		case "min", "gte":
			problems = append(problems, field+" must be at least "+fe.Param())
		case "max", "lte":
			problems = append(problems, field+" must be at most "+fe.Param())
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	sort.Strings(fields)
	return apperr.Validation(apperr.CodeInvalidInput, "%s", strings.Join(problems, ", ")).
		With("fields", strings.Join(fields, ","))
}
