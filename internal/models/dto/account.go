package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/models"
)

type TransferRequest struct {
	Recipient string           `json:"recipient"`
	Amount    *decimal.Decimal `json:"amount"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// BalanceResponse renders the balance as a bare JSON number.
type BalanceResponse struct {
	Username    string             `json:"username"`
	AccountType models.AccountType `json:"account_type"`
	Balance     json.Number        `json:"balance"`
}

type HistoryResponse struct {
	Username     string               `json:"username"`
	Transactions []models.Transaction `json:"transactions"`
}

// NewBalanceResponse builds the balance view of a user.
func NewBalanceResponse(user models.User) BalanceResponse {
	return BalanceResponse{
		Username:    user.Username,
		AccountType: user.AccountType,
		Balance:     json.Number(user.Balance.String()),
	}
}
