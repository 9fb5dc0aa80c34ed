package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/http/respond"
	"github.com/utsabduwadi/bank-management-system/internal/middleware"
	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/models/dto"
	"github.com/utsabduwadi/bank-management-system/internal/statement"
)

// AccountHandler serves the logged-in customer's own account. Every route
// acts on the token subject, never on a username from the request.
type AccountHandler struct {
	bank   Bank
	tokens *auth.TokenManager
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(b Bank, tokens *auth.TokenManager) *AccountHandler {
	return &AccountHandler{bank: b, tokens: tokens}
}

// Register attaches customer routes behind token authentication.
func (h *AccountHandler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireRole(h.tokens, models.RoleCustomer, fn)
	}
	mux.Handle("/account/balance", guard(h.handleBalance))
	mux.Handle("/account/transactions", guard(h.handleTransactions))
	mux.Handle("/account/transactions/export", guard(h.handleExport))
	mux.Handle("/account/transfer", guard(h.handleTransfer))
	mux.Handle("/account/password", guard(h.handleChangePassword))
}

func caller(r *http.Request) string {
	id, _ := auth.FromContext(r.Context())
	return id.Username
}

func (h *AccountHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user, err := h.bank.Account(r.Context(), caller(r))
	if err != nil {
		serviceError(w, r, "balance", err)
		return
	}
	respond.JSON(w, http.StatusOK, fmt.Sprintf("Current Balance: %s", user.Balance), dto.NewBalanceResponse(user))
}

func (h *AccountHandler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	username := caller(r)
	history, err := h.bank.History(r.Context(), username)
	if err != nil {
		serviceError(w, r, "history", err)
		return
	}
	message := "Transaction history"
	if len(history) == 0 {
		message = "No transactions found."
	}
	respond.JSON(w, http.StatusOK, message, dto.HistoryResponse{Username: username, Transactions: history})
}

func (h *AccountHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	format, err := statement.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "format must be xlsx or pdf")
		return
	}
	user, err := h.bank.Account(r.Context(), caller(r))
	if err != nil {
		serviceError(w, r, "export", err)
		return
	}
	var buf bytes.Buffer
	if err := statement.Write(&buf, format, user); err != nil {
		log.Printf("export %s statement for %q: %v", format, user.Username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to render statement")
		return
	}
	respond.Attachment(w, format.ContentType(), format.FileName(user.Username), buf.Bytes())
}

func (h *AccountHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" || req.Amount == nil {
		respond.Error(w, http.StatusBadRequest, "recipient and amount are required")
		return
	}
	sent, err := h.bank.Transfer(r.Context(), caller(r), recipient, *req.Amount)
	if err != nil {
		serviceError(w, r, "transfer", err)
		return
	}
	respond.JSON(w, http.StatusOK, fmt.Sprintf("Transferred %s to %s successfully.", sent.Amount, recipient), sent)
}

func (h *AccountHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.bank.ChangePassword(r.Context(), caller(r), req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(w, r, "change password", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Password changed successfully.", nil)
}
