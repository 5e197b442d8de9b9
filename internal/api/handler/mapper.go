package handler

import (
	"github.com/finledger/ledger-api/internal/core/domain"
	"github.com/finledger/ledger-api/internal/core/ports"
)

// --- Domain → response views ---

func toTransactionView(t *domain.Transaction) transactionView {
	return transactionView{
		ID:     t.ID,
		Amount: t.Amount,
		Type:   string(t.Type),
	}
}

func toTransactionDetailView(t *domain.Transaction) transactionDetailView {
	return transactionDetailView{
		ID:        t.ID,
		Amount:    t.Amount,
		Type:      string(t.Type),
		FromUser:  t.FromUser,
		ToUser:    t.ToUser,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func toTransactionViews(items []*domain.Transaction) []transactionView {
	out := make([]transactionView, len(items))
	for i, t := range items {
		out[i] = toTransactionView(t)
	}
	return out
}

func toListResponse(p *ports.TransactionPage) listTransactionsResponse {
	totalPages := int(p.Total) / p.PageSize
	if int(p.Total)%p.PageSize != 0 {
		totalPages++
	}
	return listTransactionsResponse{
		Data: toTransactionViews(p.Items),
		Pagination: paginationResponse{
			Total:      p.Total,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: totalPages,
		},
	}
}

func toUserView(a *domain.Account) userView {
	return userView{ID: a.ID, Email: a.Email, Name: a.Name}
}

func toUserViews(items []*domain.Account) []userView {
	out := make([]userView, len(items))
	for i, a := range items {
		out[i] = toUserView(a)
	}
	return out
}

func toUserDetailView(a *domain.Account) userDetailView {
	return userDetailView{ID: a.ID, Email: a.Email, Name: a.Name, Balance: a.Balance}
}

func toBlockedUserView(a *domain.Account) blockedUserView {
	return blockedUserView{ID: a.ID, Email: a.Email, Name: a.Name, Balance: a.Balance, Blocked: a.Blocked}
}
