package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// validateStruct turns the first validation failure into a BadRequest naming the field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.BadRequest("invalid request")
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return apperrors.BadRequest(fe.Field() + " is required")
	case "email":
		return apperrors.BadRequest(fe.Field() + " must be a valid email address")
	case "min":
		return apperrors.BadRequest(fe.Field() + " must be at least " + fe.Param() + " characters")
	case "max":
		return apperrors.BadRequest(fe.Field() + " must be at most " + fe.Param() + " characters")
	case "oneof":
		return apperrors.BadRequest(fe.Field() + " must be one of " + fe.Param())
	default:
		return apperrors.BadRequest(fe.Field() + " is invalid")
	}
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.BadRequest("invalid request body")
	}
	return validateStruct(dst)
}

func pageFromQuery(r *http.Request) models.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.PageRequest{Page: page, Limit: limit}.Normalize()
}

func actor(r *http.Request) string {
	return middleware.ActorFromContext(r.Context())
}

func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
