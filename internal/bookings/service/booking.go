package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "coursedesk/internal/bookings/errors"
	"coursedesk/internal/bookings/repository"
	courseserrors "coursedesk/internal/courses/errors"
	courserepo "coursedesk/internal/courses/repository"
	participantserrors "coursedesk/internal/participants/errors"
	participantrepo "coursedesk/internal/participants/repository"
	"coursedesk/pkg/config"
	apperrors "coursedesk/pkg/errors"
	"coursedesk/pkg/events"
	"coursedesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	BookCourse(ctx context.Context, participantID string, courseID string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByParticipant(ctx context.Context, participantID string, limit int, offset int64) ([]*model.Booking, int64, error)
	CancelBooking(ctx context.Context, id string) (*model.Booking, error)
	ChangeStatus(ctx context.Context, id string, newStatus model.BookingStatus) (*model.Booking, error)
}

type bookingService struct {
	repo            repository.BookingRepository
	lockRepo        repository.SeatLockRepository
	participantRepo participantrepo.ParticipantRepository
	courseRepo      courserepo.CourseRepository
	publisher       events.Publisher
	cfg             *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SeatLockRepository,
	participantRepo participantrepo.ParticipantRepository,
	courseRepo courserepo.CourseRepository,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:            repo,
		lockRepo:        lockRepo,
		participantRepo: participantRepo,
		courseRepo:      courseRepo,
		publisher:       publisher,
		cfg:             cfg,
	}
}

func (s *bookingService) BookCourse(ctx context.Context, participantID string, courseID string) (*model.Booking, error) {
	if participantID == "" || courseID == "" {
		return nil, apperrors.InvalidInput("Participant ID and course ID are required")
	}

	participant, err := s.findParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.Status != model.ParticipantActive {
		return nil, apperrors.PreconditionFailed("participant is not active")
	}

	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsBookable() {
		return nil, apperrors.PreconditionFailed(
			fmt.Sprintf("course is not open for booking in status %s", course.Status))
	}

	// Advisory lock so two last-seat requests cannot both pass the
	// capacity check inside their own transactions.
	lockID, err := s.acquireSeatLock(ctx, courseID)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Release must survive request cancellation, or the course stays
		// locked for the full TTL.
		if releaseErr := s.lockRepo.Delete(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release seat lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking := &model.Booking{
		ParticipantID: participantID,
		CourseID:      courseID,
		BookingDate:   time.Now().UTC().Truncate(time.Millisecond),
		Status:        model.BookingPending,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		exists, err := s.repo.ExistsByParticipantCourseAndStatusIn(
			sessCtx, participantID, courseID, model.NonCancelledStatuses)
		if err != nil {
			return apperrors.Internal("Failed to check for existing booking", err)
		}
		if exists {
			return apperrors.Conflict("participant already has an active booking for this course")
		}

		// A new booking occupies a seat while still pending, so pending
		// and confirmed bookings both count against capacity here.
		occupied, err := s.repo.CountByCourseAndStatusIn(
			sessCtx, courseID, model.SeatOccupyingStatuses, "")
		if err != nil {
			return apperrors.Internal("Failed to count course bookings", err)
		}
		if occupied >= int64(course.MaxSeats) {
			return apperrors.CapacityExceeded(
				fmt.Sprintf("course %s is fully booked (%d seats)", courseID, course.MaxSeats))
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to book course",
			"participant_id", participantID,
			"course_id", courseID,
			"error", err,
		)
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TypeBookingCreated, "booking", booking.ID, map[string]any{
		"participant_id": participantID,
		"course_id":      courseID,
		"status":         booking.Status,
	}))

	s.cfg.Log.Info("Course booked successfully",
		"booking_id", booking.ID,
		"participant_id", participantID,
		"course_id", courseID,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByParticipant(ctx context.Context, participantID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if participantID == "" {
		return nil, 0, apperrors.InvalidInput("Participant ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByParticipant(ctx, participantID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count participant bookings", "participant_id", participantID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByParticipant(ctx, participantID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list participant bookings", "participant_id", participantID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.BookingCompleted:
		return nil, apperrors.InvalidTransitionMessage(
			"cannot cancel a completed booking", "booking", string(booking.Status), string(model.BookingCancelled))
	case model.BookingCancelled:
		return nil, apperrors.InvalidTransitionMessage(
			"booking is already cancelled", "booking", string(booking.Status), string(model.BookingCancelled))
	}

	previousStatus := booking.Status
	booking.Status = model.BookingCancelled
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.UpdateStatus(sessCtx, id, model.BookingCancelled); err != nil {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, err
	}

	s.publishStatusChanged(ctx, booking, previousStatus)
	s.cfg.Log.Info("Booking cancelled", "id", id, "previous_status", previousStatus)
	return booking, nil
}

func (s *bookingService) ChangeStatus(ctx context.Context, id string, newStatus model.BookingStatus) (*model.Booking, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid booking status: %s", newStatus))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Requesting the current status is a no-op, not an error.
	if booking.Status == newStatus {
		return booking, nil
	}

	switch booking.Status {
	case model.BookingCancelled:
		return nil, apperrors.InvalidTransitionMessage(
			"cannot change status of a cancelled booking", "booking", string(booking.Status), string(newStatus))
	case model.BookingCompleted:
		return nil, apperrors.InvalidTransitionMessage(
			"cannot change status of a completed booking", "booking", string(booking.Status), string(newStatus))
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransition("booking", string(booking.Status), string(newStatus))
	}

	previousStatus := booking.Status
	booking.Status = newStatus
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if newStatus == model.BookingConfirmed {
			if err := s.checkConfirmCapacity(sessCtx, booking); err != nil {
				return err
			}
		}
		if _, err := s.repo.UpdateStatus(sessCtx, id, newStatus); err != nil {
			return apperrors.Internal("Failed to change booking status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to change booking status", "id", id, "error", err)
		return nil, err
	}

	s.publishStatusChanged(ctx, booking, previousStatus)
	s.cfg.Log.Info("Booking status changed", "id", id, "from", previousStatus, "to", newStatus)
	return booking, nil
}

// --- Helpers ---

// checkConfirmCapacity enforces the confirmation-time seat cap. Only
// CONFIRMED bookings count here, and the booking being confirmed is
// excluded so re-confirming never trips over itself.
func (s *bookingService) checkConfirmCapacity(ctx context.Context, booking *model.Booking) error {
	course, err := s.findCourse(ctx, booking.CourseID)
	if err != nil {
		return err
	}

	confirmed, err := s.repo.CountByCourseAndStatusIn(
		ctx, booking.CourseID, []model.BookingStatus{model.BookingConfirmed}, booking.ID)
	if err != nil {
		return apperrors.Internal("Failed to count confirmed bookings", err)
	}
	if confirmed >= int64(course.MaxSeats) {
		return apperrors.CapacityExceeded(
			fmt.Sprintf("course %s has no confirmed seats left (%d seats)", booking.CourseID, course.MaxSeats))
	}
	return nil
}

func (s *bookingService) acquireSeatLock(ctx context.Context, courseID string) (string, error) {
	lock := &model.SeatLock{
		ID:        fmt.Sprintf("seat:%s", courseID),
		ExpiresAt: time.Now().Add(s.cfg.SeatLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("another booking for this course is in progress, try again")
		}
		return "", apperrors.Internal("Failed to acquire seat lock", err)
	}

	return lock.ID, nil
}

func (s *bookingService) findParticipant(ctx context.Context, id string) (*model.Participant, error) {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, participantserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Participant", id)
		}
		if errors.Is(err, participantserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid participant ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve participant", err)
	}
	return participant, nil
}

func (s *bookingService) findCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, courseserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Course", id)
		}
		if errors.Is(err, courseserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid course ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve course", err)
	}
	return course, nil
}

func (s *bookingService) publishStatusChanged(ctx context.Context, booking *model.Booking, previous model.BookingStatus) {
	s.publisher.Publish(ctx, events.New(events.TypeBookingStatusChanged, "booking", booking.ID, map[string]any{
		"previous_status": previous,
		"new_status":      booking.Status,
	}))
}
