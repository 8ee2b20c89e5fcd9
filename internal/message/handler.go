package message

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport"
	"github.com/itcentralng/dhf-hrapp-backend/pkg/logger"
)

const maxUploadMemory = 32 << 20 // 32 MiB before multipart spills to disk

type ServiceAPI interface {
	CreateMessage(senderID int64, dto CreateMessageDTO) (*Message, error)
	UploadDocument(ctx context.Context, senderID int64, senderEmail string, dto UploadDocumentDTO, filename, contentType string, data io.Reader) (*Message, error)
	CreateComment(senderID int64, dto CreateCommentDTO) (*Comment, error)
	GetInbox(userID int64) ([]*Message, error)
	GetOutbox(userID int64) ([]*Message, error)
	RespondToLeave(callerID int64, callerRole string, dto LeaveResponseDTO) (*Message, error)
	ViewAllLeaveRequests(callerRole string) ([]*Message, error)
	ShareLeaveRequest(callerID int64, callerRole string, dto ShareLeaveRequestDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateMessage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.Service.CreateMessage(caller.ID, dto)
	if err != nil {
		h.Logger.Error("CreateMessage: service error", "error", err, "sender_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.Logger.Error("UploadDocument: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "no document to upload")
		return
	}
	defer file.Close()

	dto := UploadDocumentDTO{
		Title:      r.FormValue("title"),
		Label:      r.FormValue("label"),
		Recipients: r.Form["recipients"],
	}
	if text := r.FormValue("text"); text != "" {
		dto.Text = &text
	}

	msg, err := h.Service.UploadDocument(r.Context(), caller.ID, caller.Email, dto,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.Logger.Error("UploadDocument: service error", "error", err, "sender_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "document sent successfully",
		"id":       msg.ID,
		"document": msg.Document,
	})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Service.CreateComment(caller.ID, dto)
	if err != nil {
		h.Logger.Error("CreateComment: service error", "error", err, "message_id", dto.MessageID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) GetInbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.Service.GetInbox(caller.ID)
	if err != nil {
		h.Logger.Error("GetInbox: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handler) GetOutbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.Service.GetOutbox(caller.ID)
	if err != nil {
		h.Logger.Error("GetOutbox: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handler) RespondToLeaveRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto LeaveResponseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.Service.RespondToLeave(caller.ID, caller.Role, dto)
	if err != nil {
		h.Logger.Error("RespondToLeaveRequest: service error", "error", err, "message_id", dto.MessageID, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) ViewAllLeaveRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.Service.ViewAllLeaveRequests(caller.Role)
	if err != nil {
		h.Logger.Error("ViewAllLeaveRequests: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"leave_requests": messages})
}

func (h *Handler) ShareLeaveRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ShareLeaveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ShareLeaveRequest(caller.ID, caller.Role, dto); err != nil {
		h.Logger.Error("ShareLeaveRequest: service error", "error", err, "message_id", dto.MessageID, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "message shared successfully"})
}
