package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type AdminHandler struct {
	adminService services.AdminService
	jwtSecret    []byte
}

func NewAdminHandler(adminService services.AdminService, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		jwtSecret:    []byte(jwtSecret),
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	admin, err := h.adminService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	claims := middleware.NewClaims(admin.ID, middleware.KindAdmin, admin.FullName)
	tokenString, err := signToken(h.jwtSecret, claims)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	// first_login подсказывает фронту принудительную смену пароля.
	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString, "admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	admin, err := h.adminService.GetByID(r.Context(), identity.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	admins, err := h.adminService.List(r.Context(), identity.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admins": admins}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	var input services.CreateAdminInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.adminService.Create(r.Context(), identity.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	adminID, err := getIDFromURL(r, "adminID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Roles []models.AdminRole `json:"roles"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.adminService.UpdateRoles(r.Context(), identity.ID, adminID, input.Roles)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin": admin}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	adminID, err := getIDFromURL(r, "adminID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.SetActive(r.Context(), identity.ID, adminID, input.Active); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	adminID, err := getIDFromURL(r, "adminID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.Delete(r.Context(), identity.ID, adminID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.ChangePassword(r.Context(), identity.ID, input.CurrentPassword, input.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetDashboardStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	q := r.URL.Query()
	filter := models.AuditLogFilter{Page: 1, Limit: 50}
	if a := q.Get("action"); a != "" {
		action := models.AuditAction(a)
		filter.Action = &action
	}
	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			badRequestResponse(w, r, errInvalidQueryParam("page"))
			return
		}
		filter.Page = page
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 1 || limit > 200 {
			badRequestResponse(w, r, errInvalidQueryParam("limit"))
			return
		}
		filter.Limit = limit
	}

	entries, total, err := h.adminService.ListAuditLog(r.Context(), identity.ID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries, "total": total}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
