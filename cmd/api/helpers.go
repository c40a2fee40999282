package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"reviewhub/proj/internal/domain/filters"
	"reviewhub/proj/internal/lib/validator"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		app.Http.NotFound(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

func (app *Application) decodeFilters(w http.ResponseWriter, r *http.Request, dst any, defaultPageSize int) bool {
	if err := filters.Decode(dst, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "invalid query parameters")
		return false
	}
	type normalizer interface{ Normalize(pageSize int) }
	if n, ok := dst.(normalizer); ok {
		n.Normalize(defaultPageSize)
	}
	if errs := validator.ValidateStruct(app.validator, reflect.ValueOf(dst).Elem().Interface()); errs != nil {
		app.Http.ValidationErrors(w, r, errs)
		return false
	}
	return true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return app.decodeBody(w, r, dst, true)
}

// readJSONLax tolerates unknown fields. The self-service profile update
// uses it so supplied read-only fields are ignored instead of rejected.
func (app *Application) readJSONLax(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return app.decodeBody(w, r, dst, false)
}

func (app *Application) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, strict bool) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	if strict {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
