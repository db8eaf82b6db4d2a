package handlers

import (
	"net/http"

	"github.com/landrytower/liprobakin/services"
)

// DirectoryHandler обслуживает справочные разделы сайта: партнёры,
// исполком и судейский корпус.
type DirectoryHandler struct {
	directoryService services.DirectoryService
}

func NewDirectoryHandler(directoryService services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

func (h *DirectoryHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.directoryService.ListPartners(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partners": partners}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var input services.PartnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	partner, err := h.directoryService.CreatePartner(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"partner": partner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PartnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	partner, err := h.directoryService.UpdatePartner(r.Context(), partnerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partner": partner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.directoryService.DeletePartner(r.Context(), partnerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DirectoryHandler) UploadPartnerLogo(w http.ResponseWriter, r *http.Request) {
	partnerID, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ext, err := readUploadedFile(w, r, "logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	partner, err := h.directoryService.UploadPartnerLogo(r.Context(), partnerID, contentType, ext, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partner": partner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) ListCommitteeMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.directoryService.ListCommitteeMembers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"members": members}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) CreateCommitteeMember(w http.ResponseWriter, r *http.Request) {
	var input services.CommitteeMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.directoryService.CreateCommitteeMember(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) UpdateCommitteeMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CommitteeMemberInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	member, err := h.directoryService.UpdateCommitteeMember(r.Context(), memberID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) DeleteCommitteeMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.directoryService.DeleteCommitteeMember(r.Context(), memberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DirectoryHandler) ListReferees(w http.ResponseWriter, r *http.Request) {
	referees, err := h.directoryService.ListReferees(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referees": referees}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) CreateReferee(w http.ResponseWriter, r *http.Request) {
	var input services.RefereeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	referee, err := h.directoryService.CreateReferee(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"referee": referee}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) UpdateReferee(w http.ResponseWriter, r *http.Request) {
	refereeID, err := getIDFromURL(r, "refereeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RefereeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	referee, err := h.directoryService.UpdateReferee(r.Context(), refereeID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referee": referee}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DirectoryHandler) DeleteReferee(w http.ResponseWriter, r *http.Request) {
	refereeID, err := getIDFromURL(r, "refereeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.directoryService.DeleteReferee(r.Context(), refereeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
