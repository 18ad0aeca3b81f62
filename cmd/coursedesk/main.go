package main

import (
	bookinghandler "coursedesk/internal/bookings/handler"
	bookingrepo "coursedesk/internal/bookings/repository"
	bookingservice "coursedesk/internal/bookings/service"
	coursehandler "coursedesk/internal/courses/handler"
	courserepo "coursedesk/internal/courses/repository"
	courseservice "coursedesk/internal/courses/service"
	coursevalidator "coursedesk/internal/courses/validator"
	orderhandler "coursedesk/internal/orders/handler"
	orderrepo "coursedesk/internal/orders/repository"
	orderservice "coursedesk/internal/orders/service"
	ordervalidator "coursedesk/internal/orders/validator"
	participanthandler "coursedesk/internal/participants/handler"
	participantrepo "coursedesk/internal/participants/repository"
	participantservice "coursedesk/internal/participants/service"
	participantvalidator "coursedesk/internal/participants/validator"
	trainerhandler "coursedesk/internal/trainers/handler"
	trainerrepo "coursedesk/internal/trainers/repository"
	trainerservice "coursedesk/internal/trainers/service"
	trainervalidator "coursedesk/internal/trainers/validator"
	userhandler "coursedesk/internal/users/handler"
	userrepo "coursedesk/internal/users/repository"
	userservice "coursedesk/internal/users/service"
	uservalidator "coursedesk/internal/users/validator"
	"coursedesk/pkg/app"
	"coursedesk/pkg/config"
	"coursedesk/pkg/contracts"
	"coursedesk/pkg/events"
)

const ServiceName = "coursedesk"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting coursedesk service")

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaEventTopic, cfg.Log)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	courseRepo := courserepo.NewMongoCourseRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	seatLockRepo := bookingrepo.NewSeatLockRepository(cfg)
	participantRepo := participantrepo.NewMongoParticipantRepository(cfg)
	trainerRepo := trainerrepo.NewMongoTrainerRepository(cfg)
	userRepo := userrepo.NewMongoUserRepository(cfg)
	orderRepo := orderrepo.NewMongoOrderRepository(cfg)

	courseService := courseservice.NewCourseService(
		courseRepo,
		trainerRepo,
		coursevalidator.NewCourseValidator(cfg.Log),
		publisher,
		cfg,
	)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		seatLockRepo,
		participantRepo,
		courseRepo,
		publisher,
		cfg,
	)
	participantService := participantservice.NewParticipantService(
		participantRepo,
		participantvalidator.NewParticipantValidator(cfg.Log),
		cfg,
	)
	trainerService := trainerservice.NewTrainerService(
		trainerRepo,
		courseRepo,
		trainervalidator.NewTrainerValidator(cfg.Log),
		cfg,
	)
	userService := userservice.NewUserService(
		userRepo,
		uservalidator.NewUserValidator(cfg.Log),
		cfg,
	)
	orderService := orderservice.NewOrderService(
		orderRepo,
		userRepo,
		ordervalidator.NewOrderValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		coursehandler.NewCourseHandler(courseService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		participanthandler.NewParticipantHandler(participantService, bookingService, cfg.Log),
		trainerhandler.NewTrainerHandler(trainerService, cfg.Log),
		userhandler.NewUserHandler(userService, cfg.Log),
		orderhandler.NewOrderHandler(orderService, cfg.Log),
	}
}
