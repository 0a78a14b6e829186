package handler

import (
	"time"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Accounts ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changeRoleRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type changeAccessRequest struct {
	Username  string `json:"username"  validate:"required"`
	Operation string `json:"operation" validate:"required,oneof=LOCK UNLOCK"`
}

type accountResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
		Role:     a.Role.String(),
	}
}

type deleteAccountResponse struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// --- Tokens ---

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

// --- Audit ---

type auditEventResponse struct {
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// --- Transactions ---

type transactionRequest struct {
	Amount *int64 `json:"amount" validate:"required"`
}

type transactionResponse struct {
	Result string `json:"result"`
}

// --- Blocklists ---

type suspiciousIPRequest struct {
	IP string `json:"ip" validate:"required,ipv4"`
}

type suspiciousIPResponse struct {
	ID int64  `json:"id"`
	IP string `json:"ip"`
}

type stolenCardRequest struct {
	Number string `json:"number" validate:"required,credit_card"`
}

type stolenCardResponse struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}
