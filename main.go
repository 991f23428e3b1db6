package main

import (
	"log"

	"github.com/edlawit/travel-booking-api/config"
	"github.com/edlawit/travel-booking-api/internal/gateway"
	"github.com/edlawit/travel-booking-api/internal/handler"
	"github.com/edlawit/travel-booking-api/internal/middleware"
	"github.com/edlawit/travel-booking-api/internal/notification"
	"github.com/edlawit/travel-booking-api/internal/repository"
	"github.com/edlawit/travel-booking-api/internal/service"
	"github.com/edlawit/travel-booking-api/pkg/database"
	"github.com/edlawit/travel-booking-api/pkg/mailer"
	"github.com/edlawit/travel-booking-api/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// RabbitMQ: publish confirmations, consume them on the e-mail worker
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	var mail mailer.Service
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
		})
	} else {
		log.Println("[Mailer] SMTP_HOST not set, using mock mailer")
		mail = mailer.NewMock()
	}

	notification.NewEmailWorker(paymentRepo, mail, cfg.EmailFrom).Start(msgs)

	// Payment gateway + services
	chapa := gateway.NewChapaClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey, cfg.ChapaCallback, cfg.GatewayTimeout)
	dispatcher := notification.NewAMQPDispatcher(publisher)

	listingSvc := service.NewListingService(listingRepo)
	bookingSvc := service.NewBookingService(bookingRepo, listingRepo)
	reviewSvc := service.NewReviewService(reviewRepo, listingRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, chapa, dispatcher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "travel-booking-api"})
	})

	api := e.Group("/api/v1")
	handler.NewListingHandler(listingSvc).RegisterRoutes(api.Group("/listings"))
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api.Group("/bookings"))
	handler.NewReviewHandler(reviewSvc).RegisterRoutes(api.Group("/reviews"))
	handler.NewPaymentHandler(paymentSvc, cfg.DefaultCurrency).RegisterRoutes(api)

	log.Printf("Travel Booking API starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
