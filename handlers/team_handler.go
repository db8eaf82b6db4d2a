package handlers

import (
	"net/http"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type TeamHandler struct {
	teamService  services.TeamService
	adminService services.AdminService
}

func NewTeamHandler(teamService services.TeamService, adminService services.AdminService) *TeamHandler {
	return &TeamHandler{teamService: teamService, adminService: adminService}
}

// actingAdmin загружает текущего админа для записи в аудит.
func (h *TeamHandler) actingAdmin(r *http.Request) *models.AdminUser {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil || identity.Kind != middleware.KindAdmin {
		return nil
	}
	admin, err := h.adminService.GetByID(r.Context(), identity.ID)
	if err != nil {
		return nil
	}
	return admin
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	var division *models.Division
	if d := r.URL.Query().Get("division"); d != "" {
		dv := models.Division(d)
		division = &dv
	}

	teams, err := h.teamService.ListTeams(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), h.actingAdmin(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), h.actingAdmin(r), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
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

	team, err := h.teamService.UploadTeamLogo(r.Context(), teamID, contentType, ext, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.teamService.AddPlayer(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.teamService.UpdatePlayer(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.RemovePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) UploadPlayerPhoto(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, contentType, ext, err := readUploadedFile(w, r, "photo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	player, err := h.teamService.UploadPlayerPhoto(r.Context(), playerID, contentType, ext, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StaffInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	staff, err := h.teamService.AddStaff(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"staff": staff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := getIDFromURL(r, "staffID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StaffInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	staff, err := h.teamService.UpdateStaff(r.Context(), staffID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"staff": staff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := getIDFromURL(r, "staffID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.RemoveStaff(r.Context(), staffID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
