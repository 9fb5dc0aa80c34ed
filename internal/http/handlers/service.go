package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/bank"
	"github.com/utsabduwadi/bank-management-system/internal/http/respond"
	"github.com/utsabduwadi/bank-management-system/internal/middleware"
	"github.com/utsabduwadi/bank-management-system/internal/models"
)

// Bank is the account service the handlers drive.
type Bank interface {
	Signup(ctx context.Context, username, password string, accountType models.AccountType) error
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	AuthenticateAdmin(username, password string) error
	ChangePassword(ctx context.Context, username, current, next string) error
	ResetPassword(ctx context.Context, username, next string) error
	Transfer(ctx context.Context, sender, recipient string, amount decimal.Decimal) (models.Transaction, error)
	Account(ctx context.Context, username string) (models.User, error)
	History(ctx context.Context, username string) ([]models.Transaction, error)
}

var _ Bank = (*bank.Service)(nil)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, bank.ErrUserNotFound), errors.Is(err, bank.ErrPartyNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrWrongCredential):
		return http.StatusUnauthorized
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bank.ErrSelfTransfer),
		errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInvalidInput),
		errors.Is(err, bank.ErrInvalidAccountType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// serviceError answers with the status line for err. Unexpected errors are
// logged with the request id and reported generically.
func serviceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s failed: %v id=%s", op, err, middleware.RequestID(r.Context()))
	}
	respond.Error(w, status, bank.Message(err))
}
