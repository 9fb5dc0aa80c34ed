package bank

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUser     = errors.New("username already exists")
	ErrWrongCredential   = errors.New("wrong credential")
	ErrPartyNotFound     = errors.New("sender or recipient not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer rejects transfers whose sender and recipient match.
	ErrSelfTransfer = errors.New("sender and recipient are the same")
	// ErrInvalidAmount covers negative transfer amounts and non-positive credits.
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidInput       = errors.New("username and password are required")
	ErrInvalidAccountType = errors.New("account type must be Saving or Current")
)

var messages = map[error]string{
	ErrUserNotFound:       "User not found.",
	ErrDuplicateUser:      "Username already exists.",
	ErrWrongCredential:    "Incorrect credentials.",
	ErrPartyNotFound:      "Sender or recipient not found.",
	ErrInsufficientFunds:  "Insufficient funds.",
	ErrSelfTransfer:       "Cannot transfer to your own account.",
	ErrInvalidAmount:      "Invalid amount.",
	ErrInvalidInput:       "Username and password are required.",
	ErrInvalidAccountType: "Account type must be Saving or Current.",
}

// Message returns the status line shown to a user for err. Errors outside
// the service taxonomy get a generic line so storage details never leak.
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "Something went wrong. Please try again."
}
