package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"club-hours/internal/logger"
	"club-hours/internal/service"
	"club-hours/internal/workhours"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorBody is the JSON shape of every failed API call.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// BadRequestError is a request the handler rejected before reaching a service.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

func BadRequest(format string, args ...any) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// ErrorHandling renders the last error a handler attached with c.Error.
func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = fmt.Errorf("%v", ret)
		}
		HandleError(c, err)
		return
	}
	if err := c.Errors.Last(); err != nil && !c.Writer.Written() {
		HandleError(c, err)
	}
}

func HandleError(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request.failed", "path", c.FullPath(), "status", status, "err", err)
	} else {
		logger.Debug("request.rejected", "path", c.FullPath(), "status", status, "err", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, ErrorBody) {
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		if ginErr.IsType(gin.ErrorTypeBind) {
			return http.StatusBadRequest, fail("bad_request", bindMessage(ginErr.Err))
		}
		err = ginErr.Err
	}

	var ve *workhours.ValidationError
	if errors.As(err, &ve) {
		if ve.Kind == workhours.DuplicateForDate {
			return http.StatusConflict, fail(string(ve.Kind), ve.Message)
		}
		return http.StatusBadRequest, fail(string(ve.Kind), ve.Message)
	}
	var bad *BadRequestError
	if errors.As(err, &bad) {
		return http.StatusBadRequest, fail("bad_request", bad.Message)
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, fail("unauthorized", "Ungültige Anmeldedaten.")
	case errors.Is(err, service.ErrInvalidReset):
		return http.StatusBadRequest, fail("invalid_reset_token", "Der Link zum Zurücksetzen ist ungültig oder abgelaufen. Bitte fordern Sie einen neuen an.")
	case errors.Is(err, service.ErrUnknownEmail):
		return http.StatusNotFound, fail("unknown_email", "Diese E-Mail-Adresse ist nicht in unserem System registriert. Bitte überprüfen Sie Ihre E-Mail-Adresse oder kontaktieren Sie den Support.")
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, fail("conflict", "Für diese E-Mail-Adresse existiert bereits ein Konto.")
	case errors.Is(err, workhours.ErrNotFound):
		return http.StatusNotFound, fail("not_found", "Eintrag nicht gefunden oder keine Berechtigung.")
	case errors.Is(err, workhours.ErrUpstream):
		return http.StatusServiceUnavailable, fail("upstream_unavailable", "Zugriff auf die Benutzerdatenbank nicht möglich. Bitte versuchen Sie es später erneut.")
	}
	return http.StatusInternalServerError, fail("internal_error", "Interner Serverfehler")
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return fmt.Sprintf("Feld %s fehlt oder ist ungültig.", verrs[0].Field())
	case errors.Is(err, io.EOF):
		return "Leere Anfrage."
	case errors.As(err, &syntax):
		return "Ungültiges JSON-Format."
	case errors.As(err, &typ):
		return fmt.Sprintf("Feld %s hat einen ungültigen Typ.", typ.Field)
	}
	return "Ungültige Anfrage."
}

func fail(code, msg string) ErrorBody {
	return ErrorBody{Success: false, Error: code, Message: msg}
}
