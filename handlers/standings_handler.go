package handlers

import (
	"net/http"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

// Get отдаёт таблицу одного дивизиона: /standings?division=men.
func (h *StandingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	division := models.Division(r.URL.Query().Get("division"))

	rows, err := h.standingsService.GetStandings(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows, "division": division}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
