package handler

import (
	"encoding/json"
	"net/http"

	"coursedesk/internal/courses/service"
	"coursedesk/pkg/httputil"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CourseHandler struct {
	service service.CourseService
	log     *logger.Logger
}

func NewCourseHandler(service service.CourseService, log *logger.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		log:     log,
	}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &course); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, course); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	course, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	courses, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, courses, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *CourseHandler) GetByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status := model.CourseStatus(ps.ByName("status"))

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	courses, total, err := h.service.GetByStatus(r.Context(), status, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, courses, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByStatus", "operation", "WritePaginated", "error", err)
	}
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CourseHandler) ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	status := model.CourseStatus(r.URL.Query().Get("status"))

	course, err := h.service.ChangeStatus(r.Context(), id, status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ChangeStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "ChangeStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) AssignTrainer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	trainerID := ps.ByName("trainerId")

	course, err := h.service.AssignTrainer(r.Context(), id, trainerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AssignTrainer", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "AssignTrainer", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) RemoveTrainer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	course, err := h.service.RemoveTrainer(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveTrainer", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveTrainer", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/courses", h.Create)
	router.GET("/api/v1/courses", h.GetAll)
	router.GET("/api/v1/courses/status/:status", h.GetByStatus)
	router.GET("/api/v1/courses/id/:id", h.GetByID)
	router.PUT("/api/v1/courses/id/:id", h.Update)
	router.PUT("/api/v1/courses/id/:id/status", h.ChangeStatus)
	router.POST("/api/v1/courses/id/:id/trainer/:trainerId", h.AssignTrainer)
	router.DELETE("/api/v1/courses/id/:id/trainer", h.RemoveTrainer)
}
