package controllers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fieldbooking/internal/delivery/http/helpers"
	"fieldbooking/internal/domain"
)

// RosterTemplateSuccessResponse is the success envelope for GET /roster-templates/{fieldType}.
type RosterTemplateSuccessResponse struct {
	Data  domain.FieldTemplate `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RosterTemplateListSuccessResponse is the success envelope for GET /roster-templates.
type RosterTemplateListSuccessResponse struct {
	Data  []domain.FieldTemplate `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type RosterController struct {
	Logger  *slog.Logger
	Catalog domain.RosterCatalog
}

func NewRosterController(logger *slog.Logger, catalog domain.RosterCatalog) *RosterController {
	return &RosterController{Logger: logger, Catalog: catalog}
}

// GetTemplate godoc
// @Summary Get the roster template of a field type
// @Tags roster
// @Produce json
// @Param fieldType path string true "futbol5, futbol7 or futbol11"
// @Success 200 {object} controllers.RosterTemplateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /roster-templates/{fieldType} [get]
func (c *RosterController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	ft, err := domain.ParseFieldType(chi.URLParam(r, "fieldType"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	tmpl, err := c.Catalog.Template(ft)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tmpl)
}

// ListTemplates godoc
// @Summary List every roster template
// @Tags roster
// @Produce json
// @Success 200 {object} controllers.RosterTemplateListSuccessResponse
// @Router /roster-templates [get]
func (c *RosterController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	out := make([]domain.FieldTemplate, 0, len(domain.FieldTypes()))
	for _, ft := range domain.FieldTypes() {
		tmpl, err := c.Catalog.Template(ft)
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, err)
			return
		}
		out = append(out, tmpl)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}
