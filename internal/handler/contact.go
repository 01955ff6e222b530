package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/kickstart-blog/internal/service"
)

// ContactHandler forwards contact-form submissions to the site owner.
type ContactHandler struct {
	contact *service.ContactService
	logger  *slog.Logger
}

func NewContactHandler(contact *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, logger: logger}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// HandleSubmit mails the submission and confirms.
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkRequest(req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.contact.Submit(r.Context(), req.Name, req.Email, req.Message); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Message sent successfully!",
	})
}
