package handlers

import (
	"net/http"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type createBracketInput struct {
	Groups             int    `json:"groups"`
	QualifiersPerGroup int    `json:"qualifiers_per_group"`
	Mode               string `json:"mode"`
}

// TemplateHandler обрабатывает GET /brackets/template
//
//	@Summary	Шаблон сетки плей-офф без сохранения
//	@Tags		brackets
//	@Param		groups		query		int		true	"Количество групп"
//	@Param		qualifiers	query		int		true	"Выходящих из каждой группы"
//	@Param		mode		query		string	false	"GENERAL или OLYMPIC"
//	@Success	200			{array}		models.BracketTemplateEntry
//	@Failure	400			{object}	map[string]string
//	@Router		/brackets/template [get]
func (h *BracketHandler) TemplateHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := queryInt(r, "groups")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	qualifiers, err := queryInt(r, "qualifiers")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mode, err := brackets.ParseCrossMode(r.URL.Query().Get("mode"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.bracketService.GenerateBracket(groups, qualifiers, mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"mode": mode, "entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler обрабатывает POST /tournaments/{tournamentID}/bracket
//
//	@Summary	Создать матчи плей-офф по шаблону
//	@Tags		brackets
//	@Security	BearerAuth
//	@Param		tournamentID	path		int					true	"ID турнира"
//	@Param		input			body		createBracketInput	true	"Параметры сетки"
//	@Success	201				{array}		models.Match
//	@Failure	400,404,409		{object}	map[string]string
//	@Router		/tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input createBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	mode, err := brackets.ParseCrossMode(input.Mode)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.CreateBracket(r.Context(), tournamentID, input.Groups, input.QualifiersPerGroup, mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
