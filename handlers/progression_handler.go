package handlers

import (
	"net/http"
	"strings"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/services"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/standings"
)

type ProgressionHandler struct {
	progressionService services.ProgressionService
	standingsService   services.StandingsService
}

func NewProgressionHandler(ps services.ProgressionService, ss services.StandingsService) *ProgressionHandler {
	return &ProgressionHandler{progressionService: ps, standingsService: ss}
}

// ResolveHandler обрабатывает POST /tournaments/{tournamentID}/progression/resolve
//
//	@Summary	Заполнить слоты плей-офф по правилам
//	@Tags		progression
//	@Security	BearerAuth
//	@Param		tournamentID	path		int	true	"ID турнира"
//	@Success	200				{object}	services.ResolveReport
//	@Failure	404,409			{object}	map[string]string
//	@Router		/tournaments/{tournamentID}/progression/resolve [post]
func (h *ProgressionHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.progressionService.ResolvePending(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler обрабатывает GET /tournaments/{tournamentID}/standings
//
//	@Summary	Таблицы групп
//	@Tags		standings
//	@Param		tournamentID	path		int		true	"ID турнира"
//	@Param		criteria		query		string	false	"Цепочка критериев, например POINTS,WINS,GOAL_DIFF"
//	@Success	200				{object}	services.StandingsView
//	@Router		/tournaments/{tournamentID}/standings [get]
func (h *ProgressionHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Без параметра используется цепочка, сохранённая в турнире.
	var criteria []standings.Criterion
	if raw := strings.TrimSpace(r.URL.Query().Get("criteria")); raw != "" {
		criteria, err = standings.ParseCriteria(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	view, err := h.standingsService.ComputeStandings(r.Context(), tournamentID, criteria)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
