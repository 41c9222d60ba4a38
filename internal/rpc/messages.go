package rpc

import "github.com/dmitrijs2005/trainpi/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type RegisterResponse struct {
	User models.User `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type ListExceptionsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListExceptionsResponse struct {
	Exceptions []models.Exception `json:"exceptions"`
}

type CreateExceptionRequest struct {
	Type    string `json:"type"`
	Remarks string `json:"remarks,omitempty"`
}

type ClearExceptionRequest struct {
	ID int64 `json:"id"`
}

type ExceptionResponse struct {
	Exception models.Exception `json:"exception"`
}
