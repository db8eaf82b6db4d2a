package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/services"
)

type GameHandler struct {
	gameService  services.GameService
	adminService services.AdminService
}

func NewGameHandler(gameService services.GameService, adminService services.AdminService) *GameHandler {
	return &GameHandler{gameService: gameService, adminService: adminService}
}

func (h *GameHandler) actingAdmin(r *http.Request) *models.AdminUser {
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

// List отдаёт расписание с фильтрами division/status/team/from/to.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repositories.GameFilter
	q := r.URL.Query()

	if d := q.Get("division"); d != "" {
		dv := models.Division(d)
		filter.Division = &dv
	}
	if s := q.Get("status"); s != "" {
		st := models.GameStatus(s)
		filter.Status = &st
	}
	if t := q.Get("team"); t != "" {
		teamID, err := strconv.Atoi(t)
		if err != nil || teamID <= 0 {
			badRequestResponse(w, r, errInvalidQueryParam("team"))
			return
		}
		filter.TeamID = &teamID
	}
	if f := q.Get("from"); f != "" {
		from, err := time.Parse(time.RFC3339, f)
		if err != nil {
			badRequestResponse(w, r, errInvalidQueryParam("from"))
			return
		}
		filter.From = &from
	}
	if to := q.Get("to"); to != "" {
		until, err := time.Parse(time.RFC3339, to)
		if err != nil {
			badRequestResponse(w, r, errInvalidQueryParam("to"))
			return
		}
		filter.To = &until
	}

	games, err := h.gameService.ListGames(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input services.ScheduleGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.ScheduleGame(r.Context(), h.actingAdmin(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GenerateSeason(w http.ResponseWriter, r *http.Request) {
	var input services.SeasonScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.GenerateSeasonSchedule(r.Context(), h.actingAdmin(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ScheduleGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.StartGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CompleteGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CompleteGame(r.Context(), h.actingAdmin(r), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.CancelGame(r.Context(), h.actingAdmin(r), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
