package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type VerificationHandler struct {
	verificationService services.VerificationService
}

func NewVerificationHandler(verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Submit принимает multipart-форму: поля claimed_role, claimed_team_id,
// claimed_person_id и файл id_image со снимком документа.
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	file, contentType, ext, err := readUploadedFile(w, r, "id_image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	teamID, err := strconv.Atoi(r.FormValue("claimed_team_id"))
	if err != nil {
		badRequestResponse(w, r, errors.New("claimed_team_id must be an integer"))
		return
	}
	personID, err := strconv.Atoi(r.FormValue("claimed_person_id"))
	if err != nil {
		badRequestResponse(w, r, errors.New("claimed_person_id must be an integer"))
		return
	}

	input := services.SubmitVerificationInput{
		ClaimedRole:     models.ClaimedRole(r.FormValue("claimed_role")),
		ClaimedTeamID:   teamID,
		ClaimedPersonID: personID,
		ImageExt:        ext,
		ImageType:       contentType,
	}

	req, err := h.verificationService.Submit(r.Context(), identity.ID, input, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"request": req}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VerificationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.verificationService.ListPending(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VerificationHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current admin")
		return
	}

	requestID, err := getIDFromURL(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReviewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	req, err := h.verificationService.Review(r.Context(), identity.ID, requestID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"request": req}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
