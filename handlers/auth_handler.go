package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" || input.FirstName == "" {
		badRequestResponse(w, r, errors.New("first name, email, and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	claims := middleware.NewClaims(user.ID, middleware.KindUser, user.FirstName+" "+user.LastName)
	tokenString, err := signToken(h.jwtSecret, claims)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
