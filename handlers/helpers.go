package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/landrytower/liprobakin/services"
)

type jsonResponse map[string]interface{}

const tokenTTL = 24 * time.Hour

// signToken подписывает claims общим HS256-секретом, добавив exp/iat.
func signToken(secret []byte, claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["exp"] = now.Add(tokenTTL).Unix()
	claims["iat"] = now.Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func errInvalidQueryParam(param string) error {
	return fmt.Errorf("invalid %s query parameter", param)
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
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
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
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

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		log.Printf("failed to write error response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("internal server error: %v", err)
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Не найдено
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrRosterPersonNotFound),
		errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrVerificationNotFound),
		errors.Is(err, services.ErrAdminNotFound),
		errors.Is(err, services.ErrNewsNotFound):
		notFoundResponse(w, r)

	// Конфликты
	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrAdminEmailConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrJerseyConflict),
		errors.Is(err, services.ErrVerificationAlreadyOpen),
		errors.Is(err, services.ErrVerificationAlreadyClosed),
		errors.Is(err, services.ErrGameAlreadyCompleted):
		conflictResponse(w, r, err.Error())

	// Невалидные данные и бизнес-правила
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidDivision),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrSameTeamGame),
		errors.Is(err, services.ErrGameDivisionMismatch),
		errors.Is(err, services.ErrGameNotCompletable),
		errors.Is(err, services.ErrScoresInvalid),
		errors.Is(err, services.ErrBoxScoreTeamInvalid),
		errors.Is(err, services.ErrClaimedRoleInvalid),
		errors.Is(err, services.ErrClaimIncomplete),
		errors.Is(err, services.ErrDecisionInvalid):
		badRequestResponse(w, r, err)

	// Аутентификация и доступ
	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrSelfDeletion),
		errors.Is(err, services.ErrMasterProtected):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

// readUploadedFile достаёт файл из multipart-формы и возвращает его вместе с
// типом содержимого и расширением для ключа хранилища.
func readUploadedFile(w http.ResponseWriter, r *http.Request, field string) (io.ReadCloser, string, string, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, "", "", fmt.Errorf("failed to parse multipart form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to get %s file from form: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		file.Close()
		return nil, "", "", fmt.Errorf("content-type header is required for %s", field)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	return file, contentType, ext, nil
}
