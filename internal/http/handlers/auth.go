package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/bank"
	"github.com/utsabduwadi/bank-management-system/internal/http/respond"
	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/models/dto"
)

// AuthHandler owns signup and the customer and admin login endpoints.
type AuthHandler struct {
	bank   Bank
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(b Bank, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{bank: b, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.handleSignup)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/admin/login", h.handleAdminLogin)
	mux.HandleFunc("/logout", h.handleLogout)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password != req.ConfirmPassword {
		respond.Error(w, http.StatusBadRequest, "Passwords do not match.")
		return
	}
	username := strings.TrimSpace(req.Username)
	accountType := models.AccountType(strings.TrimSpace(req.AccountType))
	if err := h.bank.Signup(r.Context(), username, req.Password, accountType); err != nil {
		serviceError(w, r, "signup", err)
		return
	}
	log.Printf("signup: created %s account for %q", accountType, username)
	respond.JSON(w, http.StatusCreated, "Signup successful! You can now log in.", map[string]string{
		"username":     username,
		"account_type": string(accountType),
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.bank.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, bank.ErrWrongCredential) {
			respond.Error(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}
		serviceError(w, r, "login", err)
		return
	}
	h.issue(w, auth.Identity{Username: user.Username, Role: models.RoleCustomer}, "Login successful!")
}

func (h *AuthHandler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if err := h.bank.AuthenticateAdmin(username, req.Password); err != nil {
		log.Printf("admin login rejected for %q", username)
		respond.Error(w, http.StatusUnauthorized, "Invalid admin credentials.")
		return
	}
	h.issue(w, auth.Identity{Username: username, Role: models.RoleAdmin}, "Admin login successful!")
}

// handleLogout exists for clients that expect it. Tokens are stateless, so
// logging out means discarding the token.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respond.JSON(w, http.StatusOK, "Logged out successfully!", nil)
}

func (h *AuthHandler) issue(w http.ResponseWriter, id auth.Identity, message string) {
	token, err := h.tokens.Generate(id)
	if err != nil {
		log.Printf("generate token for %q: %v", id.Username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, message, dto.LoginResponse{Token: token, Username: id.Username, Role: id.Role})
}
