package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Faaz345/playsplit/apperr"
)

const maxBodyBytes = 1_048_576 // 1MB

// envelope: общий формат всех ответов API.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	// Error содержит детали внутренней ошибки, только в development.
	Error string `json:"error,omitempty"`
}

type jsonResponse map[string]interface{}

var exposeErrorDetails atomic.Bool

// ExposeErrorDetails включает вывод текста внутренних ошибок клиенту.
func ExposeErrorDetails(enabled bool) {
	exposeErrorDetails.Store(enabled)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeJSONError(err)
	}

	err := dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readBody читает тело целиком; нужно там, где тело разбирается дважды
// или проверяется подпись.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		}
		return nil, err
	}
	return body, nil
}

func describeJSONError(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError

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
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Errorf("body contains unknown key %s", fieldName)
	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
	case errors.As(err, &invalidUnmarshalError):
		panic(err) // ошибка программиста: передан не указатель
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// respond пишет успешный ответ в конверте.
func respond(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	env := envelope{Success: true, Message: message, Data: data}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", slog.Any("error", err))
	}
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	env := envelope{Success: false, Message: message, Errors: fields}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))

	env := envelope{Success: false, Message: "Internal server error"}
	if exposeErrorDetails.Load() {
		env.Error = err.Error()
	}
	if werr := writeJSON(w, http.StatusInternalServerError, env, nil); werr != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

// statusForKind: единая таблица соответствия видов ошибок HTTP статусам.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicate, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	case apperr.KindPayment:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok || (appErr.Kind == apperr.KindInfrastructure && appErr.Err != nil) {
		serverErrorResponse(w, r, err)
		return
	}

	status := statusForKind(appErr.Kind)
	if appErr.Kind == apperr.KindInfrastructure {
		// выключенная функциональность (хранилище, шлюз), а не сбой
		status = http.StatusServiceUnavailable
	}
	if appErr.Kind == apperr.KindPayment {
		// отказ шлюза без причины на нашей стороне (подпись, не захвачен) это 400
		if appErr.Err == nil {
			status = http.StatusBadRequest
		}
		slog.WarnContext(r.Context(), "payment error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}

	env := envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields}
	if exposeErrorDetails.Load() && appErr.Err != nil {
		env.Error = appErr.Err.Error()
	}
	if werr := writeJSON(w, status, env, nil); werr != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", werr))
	}
}

func urlParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", fmt.Errorf("missing %s in URL path", name)
	}
	return value, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", key)
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("query parameter %q must be a boolean", key)
	}
	return &v, nil
}

// queryTime принимает RFC3339 или дату в формате 2006-01-02.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("query parameter %q must be a date (YYYY-MM-DD) or RFC3339 timestamp", key)
}

// pagination читает page и limit из query.
func pagination(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page", 1); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", 0); err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, errors.New("page must be positive")
	}
	if limit < 0 {
		return 0, 0, errors.New("limit must not be negative")
	}
	return page, limit, nil
}
