package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/services"
	"github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20

type UserHandlers struct {
	profiles *services.ProfileService
	projects *services.ProjectService
	logger   logrus.FieldLogger
}

func NewUserHandlers(profiles *services.ProfileService, projects *services.ProjectService, logger logrus.FieldLogger) *UserHandlers {
	return &UserHandlers{profiles: profiles, projects: projects, logger: logger}
}

func (h *UserHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	view, err := h.profiles.Get(r.Context(), account)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	var update models.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	view, err := h.profiles.Update(r.Context(), account.ID, update)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *UserHandlers) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	upload, err := h.profiles.UploadImage(r.Context(), account, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, upload)
}

func (h *UserHandlers) DeleteProfileImage(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	if err := h.profiles.DeleteImage(r.Context(), account); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	var input models.ProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	project, err := h.projects.Create(r.Context(), account.ID, input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *UserHandlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	projectID, ok := uuidParam(w, r, "projectID")
	if !ok {
		return
	}

	var input models.ProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}

	project, err := h.projects.Update(r.Context(), account.ID, projectID, input)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *UserHandlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	projectID, ok := uuidParam(w, r, "projectID")
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), account.ID, projectID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandlers) ListMyProjects(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())

	projects, err := h.projects.ListMine(r.Context(), account.ID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *UserHandlers) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	accountID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	view, err := h.profiles.Portfolio(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Contact takes sender_email, subject and message as query parameters.
func (h *UserHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	accountID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := services.ContactRequest{
		SenderEmail: query.Get("sender_email"),
		Subject:     query.Get("subject"),
		Message:     query.Get("message"),
	}
	for _, field := range []struct{ name, value string }{
		{"sender_email", req.SenderEmail},
		{"subject", req.Subject},
		{"message", req.Message},
	} {
		if field.value == "" {
			writeError(w, http.StatusBadRequest, field.name+" is required")
			return
		}
	}

	msg, err := h.profiles.Contact(r.Context(), accountID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
