package studyleave

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport"
	"github.com/itcentralng/dhf-hrapp-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(callerID int64, callerRole string, dto SubmitDTO) (*StudyLeave, error)
	Respond(stageName string, callerID int64, callerRole string, id int64, dto StageResponseDTO) (*StudyLeave, error)
	GetByID(callerID int64, callerRole string, id int64) (*StudyLeave, error)
	List(callerID int64, callerRole string) ([]*StudyLeave, error)
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

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sl, err := h.Service.Submit(caller.ID, caller.Role, dto)
	if err != nil {
		h.Logger.Error("Submit study leave: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sl)
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid study leave ID")
		return
	}
	stage := chi.URLParam(r, "stage")

	var dto StageResponseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sl, err := h.Service.Respond(stage, caller.ID, caller.Role, id, dto)
	if err != nil {
		h.Logger.Error("Respond study leave: service error", "error", err, "study_leave_id", id, "stage", stage, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sl)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid study leave ID")
		return
	}

	sl, err := h.Service.GetByID(caller.ID, caller.Role, id)
	if err != nil {
		h.Logger.Error("Get study leave: service error", "error", err, "study_leave_id", id, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sl)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.List(caller.ID, caller.Role)
	if err != nil {
		h.Logger.Error("List study leaves: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"study_leaves": leaves})
}
