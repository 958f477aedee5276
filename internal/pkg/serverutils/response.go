package serverutils

import "consultation-be/internal/pkg/apperror"

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ErrorBody struct {
	Success bool          `json:"success"`
	Code    int           `json:"code"`
	Error   apperror.Code `json:"error"`
	Message string        `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(status int, code apperror.Code, message string) ErrorBody {
	return ErrorBody{
		Success: false,
		Code:    status,
		Error:   code,
		Message: message,
	}
}
