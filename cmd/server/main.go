package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"

	"medibook/internal/api"
	"medibook/internal/auth"
	"medibook/internal/db"
	"medibook/internal/repository"
	"medibook/internal/service"
)

func main() {
	godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := database.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Warn().Msg("REDIS_ADDR not set; schedule push events disabled")
	}

	cld, err := cloudinary.New() // reads CLOUDINARY_URL
	if err != nil {
		log.Warn().Err(err).Msg("cloudinary not configured; document uploads disabled")
	}

	profileRepo := repository.NewProfileRepository(database)
	availabilityRepo := repository.NewAvailabilityRepository(database)
	consultationRepo := repository.NewConsultationRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	documentRepo := repository.NewDocumentRepository(database)
	jobRepo := repository.NewJobRepository(database)

	pushSvc := service.NewPushService(redisClient)
	senderSvc := service.NewSenderService()
	stripeSvc := service.NewStripeService()

	authSvc := service.NewAuthService(profileRepo)
	adminSvc := service.NewAdminService(profileRepo)
	scheduleSvc := service.NewScheduleService(availabilityRepo, consultationRepo, profileRepo, pushSvc, senderSvc)
	bookingSvc := service.NewBookingService(availabilityRepo, consultationRepo, profileRepo, stripeSvc, pushSvc, senderSvc)
	reviewSvc := service.NewReviewService(reviewRepo, consultationRepo)
	documentSvc := service.NewDocumentService(cld, documentRepo, consultationRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	publicHandler := api.NewPublicHandler(adminSvc, scheduleSvc, bookingSvc)
	doctorHandler := api.NewDoctorHandler(scheduleSvc)
	patientHandler := api.NewPatientHandler(bookingSvc, adminSvc)
	reviewHandler := api.NewReviewHandler(reviewSvc)
	documentHandler := api.NewDocumentHandler(documentSvc)
	adminHandler := api.NewAdminHandler(adminSvc)
	stripeHandler := api.NewStripeWebhookHandler(stripeWebhookSecret, bookingSvc)
	eventsHandler := api.NewEventsHandler(pushSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/doctors", publicHandler.ListDoctors).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/slots", publicHandler.GetDoctorSchedule).Methods("GET")
	r.HandleFunc("/api/prices", publicHandler.GetPrices).Methods("GET")
	r.HandleFunc("/api/consultations/{id}/review", reviewHandler.GetForConsultation).Methods("GET")
	r.HandleFunc("/api/events/doctors/{id}", eventsHandler.StreamDoctorSchedule).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Any authenticated user
	me := r.PathPrefix("/api/me").Subrouter()
	me.Use(auth.RequireRoles())
	me.HandleFunc("", authHandler.Me).Methods("GET")

	shared := r.PathPrefix("/api/consultations").Subrouter()
	shared.Use(auth.RequireRoles())
	shared.HandleFunc("/{id}/documents", documentHandler.Upload).Methods("POST")
	shared.HandleFunc("/{id}/documents", documentHandler.List).Methods("GET")

	// Patient endpoints
	patient := r.PathPrefix("/api/patient").Subrouter()
	patient.Use(auth.RequireRoles(db.RolePatient))
	patient.HandleFunc("/bookings", patientHandler.BookSlots).Methods("POST")
	patient.HandleFunc("/consultations", patientHandler.ListMyConsultations).Methods("GET")
	patient.HandleFunc("/consultations/{id}", patientHandler.CancelConsultation).Methods("DELETE")
	patient.HandleFunc("/cart", patientHandler.ListCart).Methods("GET")
	patient.HandleFunc("/cart/{id}", patientHandler.RemoveCartItem).Methods("DELETE")
	patient.HandleFunc("/cart/checkout", patientHandler.Checkout).Methods("POST")
	patient.HandleFunc("/reviews", reviewHandler.Create).Methods("POST")
	patient.HandleFunc("/reviews", reviewHandler.ListMine).Methods("GET")
	patient.HandleFunc("/reviews/{id}", reviewHandler.Update).Methods("PUT")

	// Doctor endpoints
	doctor := r.PathPrefix("/api/doctor").Subrouter()
	doctor.Use(auth.RequireRoles(db.RoleDoctor))
	doctor.HandleFunc("/availability", doctorHandler.CreateAvailability).Methods("POST")
	doctor.HandleFunc("/availability", doctorHandler.ListAvailability).Methods("GET")
	doctor.HandleFunc("/availability/{id}", doctorHandler.DeleteAvailability).Methods("DELETE")
	doctor.HandleFunc("/absences", doctorHandler.CreateAbsence).Methods("POST")
	doctor.HandleFunc("/absences", doctorHandler.ListAbsences).Methods("GET")
	doctor.HandleFunc("/absences/{id}", doctorHandler.DeleteAbsence).Methods("DELETE")
	doctor.HandleFunc("/agenda", doctorHandler.GetAgenda).Methods("GET")

	// Admin endpoints
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.RequireRoles(db.RoleAdmin))
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/ban", adminHandler.SetBanned).Methods("PUT")
	admin.HandleFunc("/doctors", adminHandler.CreateDoctor).Methods("POST")

	c := cron.New()
	c.AddFunc("@every 5m", jobSvc.CompleteFinishedConsultations)
	c.AddFunc("@every 10m", jobSvc.PurgeStaleCartItems)
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("FRONTEND_URL")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("server running")
	if err := http.ListenAndServe(":"+port, corsHandler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
