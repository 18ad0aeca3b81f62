package handler

import (
	"encoding/json"
	"net/http"

	bookingservice "coursedesk/internal/bookings/service"
	"coursedesk/internal/participants/service"
	"coursedesk/pkg/httputil"
	"coursedesk/pkg/logger"
	"coursedesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ParticipantHandler struct {
	service        service.ParticipantService
	bookingService bookingservice.BookingService
	log            *logger.Logger
}

func NewParticipantHandler(
	service service.ParticipantService,
	bookingService bookingservice.BookingService,
	log *logger.Logger,
) *ParticipantHandler {
	return &ParticipantHandler{
		service:        service,
		bookingService: bookingService,
		log:            log,
	}
}

func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var participant model.Participant
	if err := json.NewDecoder(r.Body).Decode(&participant); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &participant); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, participant); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ParticipantHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	participant, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, participant); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ParticipantHandler) GetByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	participant, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByEmail", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, participant); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByEmail", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ParticipantHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	participants, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, participants, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ParticipantUpdate
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

// BookCourse reserves a seat on a course for the participant in the path.
// The target course comes from the course_id query parameter.
func (h *ParticipantHandler) BookCourse(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	participantID := ps.ByName("id")
	courseID := r.URL.Query().Get("course_id")

	booking, err := h.bookingService.BookCourse(r.Context(), participantID, courseID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "BookCourse", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "BookCourse", "operation", "WriteCreated", "error", err)
	}
}

func (h *ParticipantHandler) GetBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	participantID := ps.ByName("id")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.bookingService.GetByParticipant(r.Context(), participantID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *ParticipantHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/participants", h.Create)
	router.GET("/api/v1/participants", h.GetAll)
	router.GET("/api/v1/participants/id/:id", h.GetByID)
	router.PUT("/api/v1/participants/id/:id", h.Update)
	router.GET("/api/v1/participants/email/:email", h.GetByEmail)
	router.POST("/api/v1/participants/id/:id/bookings", h.BookCourse)
	router.GET("/api/v1/participants/id/:id/bookings", h.GetBookings)
}
