package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finledger/ledger-api/internal/core/ports"
)

// TransactionHandler exposes the transaction engine over HTTP. The acting
// user id always comes from the verified token, never from the payload.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Deposit credits the authenticated user's balance.
//
// @Summary      Create a deposit transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amountRequest  true  "Amount to deposit"
// @Success      201   {object}  transactionDetailView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /transactions/deposit [post]
func (h *TransactionHandler) Deposit(c echo.Context) error {
	req, userID, err := h.bindAmount(c)
	if err != nil {
		return err
	}

	tx, err := h.service.Deposit(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTransactionDetailView(tx))
}

// Withdraw debits the authenticated user's balance.
//
// @Summary      Create a withdrawal transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amountRequest  true  "Amount to withdraw"
// @Success      201   {object}  transactionDetailView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /transactions/withdraw [post]
func (h *TransactionHandler) Withdraw(c echo.Context) error {
	req, userID, err := h.bindAmount(c)
	if err != nil {
		return err
	}

	tx, err := h.service.Withdraw(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTransactionDetailView(tx))
}

// Transfer moves funds from the authenticated user to another account.
//
// @Summary      Create a transfer transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transferRequest  true  "Amount and recipient"
// @Success      201   {object}  transactionDetailView
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /transactions/transfer [post]
func (h *TransactionHandler) Transfer(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tx, err := h.service.Transfer(c.Request().Context(), userID, req.ToUser, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTransactionDetailView(tx))
}

// List returns one page of the whole ledger. Admin only.
//
// @Summary      List all transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page (1-indexed)"
// @Param        take  query     int  false  "Page size"  Enums(5, 10, 20, 50)
// @Success      200   {object}  listTransactionsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	var q listTransactionsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.List(c.Request().Context(), q.Page, q.Take)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(page))
}

// Owned returns the authenticated user's own transactions.
//
// @Summary      Get owned transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   transactionView
// @Failure      401  {object}  errorResponse
// @Router       /transactions/my [get]
func (h *TransactionHandler) Owned(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.service.OwnedTransactions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionViews(items))
}

// OwnedByID returns one of the authenticated user's transactions.
//
// @Summary      Get owned transaction by ID
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  transactionDetailView
// @Failure      404  {object}  errorResponse
// @Router       /transactions/my/{id} [get]
func (h *TransactionHandler) OwnedByID(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tx, err := h.service.OwnedTransaction(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionDetailView(tx))
}

// Get returns any transaction by id. Admin only.
//
// @Summary      Get transaction by ID
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  transactionDetailView
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	tx, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionDetailView(tx))
}

// Cancel reverses and deletes any transaction. Admin only.
//
// @Summary      Cancel transaction by ID
// @Tags         transactions
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c echo.Context) error {
	if err := h.service.Cancel(c.Request().Context(), c.Param("id"), ""); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelOwned reverses and deletes one of the authenticated user's own
// transactions.
//
// @Summary      Cancel owned transaction by ID
// @Tags         transactions
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/my/{id}/cancel [post]
func (h *TransactionHandler) CancelOwned(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Cancel(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TransactionHandler) bindAmount(c echo.Context) (amountRequest, string, error) {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return req, "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return req, "", err
	}
	return req, userID, nil
}
