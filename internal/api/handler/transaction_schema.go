package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses (rendered by the central error handler).
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type amountRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type transferRequest struct {
	Amount int64  `json:"amount"  validate:"required,gt=0"`
	ToUser string `json:"to_user" validate:"required"`
}

type listTransactionsQuery struct {
	Page int `query:"page" validate:"omitempty,min=1"`
	Take int `query:"take" validate:"omitempty,oneof=5 10 20 50"`
}

// --- Response views ---
// View structs are owned by the transport layer; which fields each endpoint
// exposes is decided here, not on the data model.

// transactionView is the default listing view: no counterparties.
type transactionView struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
}

// transactionDetailView adds the parties; it is returned for creations and
// single-transaction reads where the caller is entitled to see them.
type transactionDetailView struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	FromUser  string    `json:"from_user"`
	ToUser    string    `json:"to_user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type listTransactionsResponse struct {
	Data       []transactionView  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
