package evaluation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport"
	"github.com/itcentralng/dhf-hrapp-backend/pkg/logger"
)

type ServiceAPI interface {
	Create(callerID int64, callerRole string, dto CreateEvaluationDTO) (*Evaluation, error)
	List(caller *auth.User) ([]*Evaluation, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEvaluationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.Service.Create(caller.ID, caller.Role, dto)
	if err != nil {
		h.Logger.Error("Create evaluation: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ev)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	evaluations, err := h.Service.List(caller)
	if err != nil {
		h.Logger.Error("List evaluations: service error", "error", err, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"evaluations": evaluations})
}
