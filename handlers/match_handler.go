package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type slotRuleInput struct {
	Rule string `json:"rule"`
}

// ListHandler обрабатывает GET /tournaments/{tournamentID}/matches
//
//	@Summary	Матчи турнира в порядке создания
//	@Tags		matches
//	@Param		tournamentID	path	int		true	"ID турнира"
//	@Param		stage			query	string	false	"GROUP или ELIMINATION"
//	@Success	200				{array}	models.Match
//	@Router		/tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stage *models.StageKind
	if raw := r.URL.Query().Get("stage"); raw != "" {
		s := models.StageKind(strings.ToUpper(raw))
		if s != models.StageGroup && s != models.StageElimination {
			badRequestResponse(w, r, errors.New("stage must be GROUP or ELIMINATION"))
			return
		}
		stage = &s
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID, stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler обрабатывает PUT /matches/{matchID}/result
//
//	@Summary	Записать счёт матча
//	@Tags		matches
//	@Security	BearerAuth
//	@Param		matchID	path		int					true	"ID матча"
//	@Param		input	body		models.MatchResult	true	"Счёт, пенальти и признак завершения"
//	@Success	200		{object}	models.Match
//	@Failure	400,404,409	{object}	map[string]string
//	@Router		/matches/{matchID}/result [put]
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.MatchResult
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetSlotRuleHandler обрабатывает PUT /matches/{matchID}/slots/{side}/rule
//
//	@Summary	Задать правило слота (LIMPAR очищает слот)
//	@Tags		matches
//	@Security	BearerAuth
//	@Param		matchID	path		int				true	"ID матча"
//	@Param		side	path		string			true	"A или B"
//	@Param		input	body		slotRuleInput	true	"Правило"
//	@Success	200		{object}	models.Match
//	@Failure	400,404,409	{object}	map[string]string
//	@Router		/matches/{matchID}/slots/{side}/rule [put]
func (h *MatchHandler) SetSlotRuleHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side := models.SlotSide(strings.ToUpper(chi.URLParam(r, "side")))

	var input slotRuleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SetSlotRule(r.Context(), matchID, side, input.Rule)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
