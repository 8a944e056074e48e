package handler

import (
	"net/http"

	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

// maxLogoSize caps logo uploads at 5 MiB.
const maxLogoSize = 5 << 20

type SettingsHandler struct {
	settings *service.SettingService
}

func NewSettingsHandler(settings *service.SettingService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type templatePayload struct {
	Template string `json:"template"`
}

func (h *SettingsHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.settings.GetTemplate(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, templatePayload{Template: template})
}

func (h *SettingsHandler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	var req templatePayload
	if !decode(w, r, &req) {
		return
	}
	if req.Template == "" {
		response.BadRequest(w, "template cannot be empty", nil)
		return
	}

	if err := h.settings.SetTemplate(r.Context(), req.Template); err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, templatePayload{Template: req.Template})
}

// UploadLogo accepts a multipart form with a "logo" file field.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		response.BadRequest(w, "invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "logo file is required", err)
		return
	}
	defer file.Close()

	name, err := h.settings.SaveLogo(r.Context(), header.Filename, file)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, map[string]string{"filename": name})
}

func (h *SettingsHandler) GetLogo(w http.ResponseWriter, r *http.Request) {
	name, err := h.settings.GetLogo(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if name == "" {
		response.NotFound(w, "no logo uploaded")
		return
	}
	response.Success(w, map[string]string{"filename": name})
}
