package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// 各機能パッケージで同型のエラーモデルを重複定義していたのを一本化。
// service層はAPIError、handler層はToHTTPStatus/FromでJSONに落とす。

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError   { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func NotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *APIError  { return &APIError{Code: CodeConflict, Message: msg} }
func Forbidden(msg string) *APIError { return &APIError{Code: CodeForbidden, Message: msg} }
func Internal(msg string) *APIError  { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeForbidden:
			return http.StatusForbidden
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// ===== response DTO =====

type ErrDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func DTO(code Code, msg string) ErrDTO {
	var e ErrDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func From(err error) ErrDTO {
	var api *APIError
	if errors.As(err, &api) {
		return DTO(api.Code, api.Message)
	}
	return DTO(CodeInternal, err.Error())
}
