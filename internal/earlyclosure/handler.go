package earlyclosure

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
	Submit(callerID int64, callerRole string, dto SubmitDTO) (*EarlyClosure, error)
	Respond(stageName string, callerID int64, callerRole string, id int64, dto StageResponseDTO) (*EarlyClosure, error)
	GetByID(callerID int64, callerRole string, id int64) (*EarlyClosure, error)
	List(callerID int64, callerRole string) ([]*EarlyClosure, error)
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

	ec, err := h.Service.Submit(caller.ID, caller.Role, dto)
	if err != nil {
		h.Logger.Error("Submit early closure: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ec)
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
		h.WriteError(w, http.StatusBadRequest, "invalid early closure ID")
		return
	}
	stage := chi.URLParam(r, "stage")

	var dto StageResponseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ec, err := h.Service.Respond(stage, caller.ID, caller.Role, id, dto)
	if err != nil {
		h.Logger.Error("Respond early closure: service error", "error", err, "early_closure_id", id, "stage", stage, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ec)
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
		h.WriteError(w, http.StatusBadRequest, "invalid early closure ID")
		return
	}

	ec, err := h.Service.GetByID(caller.ID, caller.Role, id)
	if err != nil {
		h.Logger.Error("Get early closure: service error", "error", err, "early_closure_id", id, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ec)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	closures, err := h.Service.List(caller.ID, caller.Role)
	if err != nil {
		h.Logger.Error("List early closures: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"early_closures": closures})
}
