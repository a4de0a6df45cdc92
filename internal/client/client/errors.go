package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

// Kind classifies an APIError.
type Kind int

const (
	// KindNetworkOrServer covers transport failures (status 0) and 5xx.
	KindNetworkOrServer Kind = iota
	// KindSessionExpired is a 401.
	KindSessionExpired
	// KindForbidden is a 403.
	KindForbidden
	// KindValidation is any other 4xx.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindSessionExpired:
		return "session expired"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	}
	return "network or server"
}

// KindForStatus classifies an HTTP status code. 0 means no response.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindSessionExpired
	case status == http.StatusForbidden:
		return KindForbidden
	case status >= 400 && status < 500:
		return KindValidation
	}
	return KindNetworkOrServer
}

// APIError is a failed backend call.
type APIError struct {
	Kind       Kind
	HTTPStatus int
	Message    string
	Method     string
	URL        string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: ", e.Method, e.URL)
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, "status %d: ", e.HTTPStatus)
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the underlying transport error.
func (e *APIError) Unwrap() []error {
	errs := []error{e.sentinel()}
	switch e.HTTPStatus {
	case http.StatusNotFound:
		errs = append(errs, common.ErrNotFound)
	case http.StatusConflict:
		errs = append(errs, common.ErrConflict)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *APIError) sentinel() error {
	switch e.Kind {
	case KindSessionExpired:
		return common.ErrSessionExpired
	case KindForbidden:
		return common.ErrForbidden
	case KindValidation:
		return common.ErrValidation
	}
	return common.ErrUnavailable
}

// IsAuthFailure reports whether err is a 401 or 403 from the backend.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == KindSessionExpired || apiErr.Kind == KindForbidden
}

// StatusOf returns the HTTP status carried by err, 0 when there is none.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}
	return 0
}

const maxErrorBody = 64 << 10

// newResponseError reads resp's body for a backend message and closes it.
func newResponseError(req *http.Request, resp *http.Response) *APIError {
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		Kind:       KindForStatus(resp.StatusCode),
		HTTPStatus: resp.StatusCode,
		Message:    backendMessage(body),
		Method:     req.Method,
		URL:        req.URL.Redacted(),
	}
}

func newTransportError(req *http.Request, err error) *APIError {
	return &APIError{
		Kind:   KindNetworkOrServer,
		Method: req.Method,
		URL:    req.URL.Redacted(),
		Err:    err,
	}
}

func backendMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
