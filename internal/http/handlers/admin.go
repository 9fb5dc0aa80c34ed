package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/http/respond"
	"github.com/utsabduwadi/bank-management-system/internal/middleware"
	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/models/dto"
)

// AdminHandler serves administrator-only operations.
type AdminHandler struct {
	bank   Bank
	tokens *auth.TokenManager
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(b Bank, tokens *auth.TokenManager) *AdminHandler {
	return &AdminHandler{bank: b, tokens: tokens}
}

// Register attaches admin routes behind token authentication.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.Handle("/admin/password-reset", middleware.RequireRole(h.tokens, models.RoleAdmin, http.HandlerFunc(h.handleResetPassword)))
}

func (h *AdminHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if err := h.bank.ResetPassword(r.Context(), username, req.NewPassword); err != nil {
		serviceError(w, r, "reset password", err)
		return
	}
	log.Printf("admin %q reset the password of %q", caller(r), username)
	respond.JSON(w, http.StatusOK, "Password updated successfully!", nil)
}
