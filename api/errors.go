package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

// Issue describes one rejected part of a request body.
// Loc is the path to the offending value, starting with "body".
type Issue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationError is returned for request bodies that do not match the
// expected shape. It is rendered as 422 Unprocessable Entity.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = fmt.Sprintf("%v: %s", is.Loc, is.Msg)
	}
	return "api: invalid request: " + strings.Join(msgs, "; ")
}

func missing(loc ...any) Issue {
	return Issue{Loc: append([]any{"body"}, loc...), Msg: "Field required", Type: "missing"}
}

// decodeIssue converts a JSON decoding failure into a ValidationError.
// prefix locates the decoded value inside the body, e.g. "nodes", 1.
func decodeIssue(err error, prefix ...any) *ValidationError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	base := append([]any{"body"}, prefix...)

	switch {
	case errors.As(err, &syntaxErr):
		return &ValidationError{Issues: []Issue{{
			Loc:  append(base, syntaxErr.Offset),
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}}
	case errors.As(err, &typeErr):
		loc := base
		if typeErr.Field != "" {
			for _, f := range strings.Split(typeErr.Field, ".") {
				loc = append(loc, f)
			}
		}
		return &ValidationError{Issues: []Issue{{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s, got %s", typeErr.Type, typeErr.Value),
			Type: "type_error",
		}}}
	default:
		return &ValidationError{Issues: []Issue{{
			Loc:  base,
			Msg:  err.Error(),
			Type: "value_error",
		}}}
	}
}

// errorHandler renders every error as a JSON body with a "detail" field.
func errorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": verr.Issues})
		}

		code := fiber.StatusInternalServerError
		msg := http.StatusText(code)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
			if code == fiber.StatusNotFound || code == fiber.StatusMethodNotAllowed {
				msg = http.StatusText(code)
			}
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "err", err)
			msg = http.StatusText(code)
		}
		return c.Status(code).JSON(fiber.Map{"detail": msg})
	}
}
