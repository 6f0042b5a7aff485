package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	admin_api "lume-api/internal/admin/api"
	"lume-api/internal/analytics"
	analytics_api "lume-api/internal/analytics/api"
	"lume-api/internal/auth"
	auth_api "lume-api/internal/auth/api"
	"lume-api/internal/config"
	"lume-api/internal/contact"
	contact_api "lume-api/internal/contact/api"
	contact_db "lume-api/internal/contact/db"
	"lume-api/internal/database/migrations"
	"lume-api/internal/events"
	events_api "lume-api/internal/events/api"
	events_db "lume-api/internal/events/db"
	"lume-api/internal/kafka"
	"lume-api/internal/logger"
	"lume-api/internal/mailer"
	"lume-api/internal/models"
	"lume-api/internal/notify"
	"lume-api/internal/rsvp"
	rsvp_api "lume-api/internal/rsvp/api"
	rsvp_db "lume-api/internal/rsvp/db"
	"lume-api/internal/tickets"
	tickets_api "lume-api/internal/tickets/api"
	tickets_db "lume-api/internal/tickets/db"
	"lume-api/internal/tickets/qr"
	tickets_redis "lume-api/internal/tickets/redis"
	"lume-api/internal/users"
	"lume-api/internal/utils"
)

// eventPublisher is satisfied by both kafka.Producer and
// kafka.MockProducer so mock mode swaps in without rewiring.
type eventPublisher interface {
	PublishRSVPCreated(rsvp models.RSVP) error
	PublishTicketIssued(ticket models.Ticket) error
	PublishTicketCheckedIn(ticket models.Ticket) error
	PublishContactCreated(msg models.ContactMessage) error
}

// subscribeHoldExpiry cancels pending tickets whose purchase hold
// expired before confirmation, re-crediting event capacity.
func subscribeHoldExpiry(rdb *redis.Client, ticketService *tickets.Service, log *logger.Logger) {
	ctx := context.Background()

	val, err := rdb.ConfigGet(ctx, "notify-keyspace-events").Result()
	if err != nil {
		log.Error("REDIS", fmt.Sprintf("Failed to get keyspace config: %v", err))
	} else {
		log.Info("REDIS", fmt.Sprintf("Current keyspace notifications setting: %v", val))
		if len(val) < 2 || !strings.Contains(val[1].(string), "x") || !strings.Contains(val[1].(string), "E") {
			log.Warn("REDIS", "Keyspace notifications not properly configured for expiry events!")
		}
	}

	pubsub := rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	log.Info("REDIS", fmt.Sprintf("Subscribed to Redis keyevent expired notifications (DB %d)", rdb.Options().DB))

	go func() {
		for msg := range pubsub.Channel() {
			if !strings.HasPrefix(msg.Payload, tickets_redis.HoldKeyPrefix) {
				continue
			}
			ticketID := strings.TrimPrefix(msg.Payload, tickets_redis.HoldKeyPrefix)
			log.Info("HOLD_EXPIRY", fmt.Sprintf("Purchase hold expired for ticket: %s", ticketID))

			if err := ticketService.ExpireHold(ctx, ticketID); err != nil {
				log.Error("HOLD_EXPIRY", fmt.Sprintf("Failed to cancel ticket %s: %v", ticketID, err))
			} else {
				log.Info("HOLD_EXPIRY", fmt.Sprintf("Ticket %s cancelled and capacity re-credited", ticketID))
			}
		}
	}()
}

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	if cfg.Database.DSN == "" {
		log.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}

	_, err = redisClient.ConfigSet(ctx, "notify-keyspace-events", "Ex").Result()
	if err != nil {
		log.Warn("REDIS", fmt.Sprintf("Failed to enable keyspace notifications: %v", err))
	} else {
		log.Info("REDIS", "Keyspace notifications enabled for expired events")
	}

	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, redisClient.Options().DB))
	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting LUME API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.Up(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	log.Info("DATABASE", "Schema migrations applied")

	var producer eventPublisher
	var kafkaProducer *kafka.Producer
	if cfg.Kafka.MockMode || !cfg.Kafka.Enabled {
		log.Warn("KAFKA", "Running with mock producer, events are logged only")
		producer = kafka.NewMockProducer(log)
	} else {
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics)
		defer kafkaProducer.Close()
		producer = kafkaProducer

		requiredTopics := []string{
			cfg.Kafka.Topics.RSVPCreated,
			cfg.Kafka.Topics.TicketIssued,
			cfg.Kafka.Topics.TicketCheckedIn,
			cfg.Kafka.Topics.ContactCreated,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	}

	mail := mailer.New(cfg.Email)

	usersDB := users.NewDB(bunDB)
	denylist := auth.NewDenylist(redisClient)
	authHandler := auth_api.NewHandler(usersDB, denylist, cfg.Auth, log)

	eventsDB := &events_db.DB{Bun: bunDB}
	eventService := events.NewService(eventsDB)
	eventHandler := events_api.NewHandler(eventService, log)

	rsvpService := rsvp.NewService(&rsvp_db.DB{Bun: bunDB}, eventsDB, producer, log)
	rsvpHandler := rsvp_api.NewHandler(rsvpService)

	qrGen := qr.NewQRGenerator(cfg.Tickets.QRSecretKey)
	holds := tickets_redis.NewHolds(redisClient, cfg.Tickets.HoldTTL)
	ticketService := tickets.NewService(&tickets_db.DB{Bun: bunDB}, eventsDB, holds, producer, qrGen, log)
	ticketHandler := tickets_api.NewHandler(ticketService)

	contactService := contact.NewService(&contact_db.DB{Bun: bunDB}, producer, mail, log, cfg.Email.AdminEmail)
	contactHandler := contact_api.NewHandler(contactService)

	adminHandler := admin_api.NewHandler(usersDB, eventService, log)
	analyticsHandler := analytics_api.NewHandler(analytics.NewService(bunDB, eventsDB, ticketService), log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		utils.WriteSuccess(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/events", eventHandler.ListEvents)
		r.With(auth.OptionalMiddleware(cfg.Auth.JWTSecret, denylist)).
			Get("/events/{id}", eventHandler.GetEvent)
		r.Post("/events/{id}/rsvp", rsvpHandler.CreateRSVP)
		r.Post("/events/{id}/tickets", ticketHandler.Purchase)
		r.Post("/contact", contactHandler.Create)
		log.Info("ROUTER", "Public routes registered under /api")

		// --- Authenticated Routes ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Auth.JWTSecret, denylist))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/rsvps/user", rsvpHandler.ListUserRSVPs)
			r.Post("/tickets/{id}/confirm", ticketHandler.Confirm)

			// --- Organizer and Admin Routes ---
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleOrganizer, models.RoleAdmin))

				r.Post("/events", eventHandler.CreateEvent)
				r.Put("/events/{id}", eventHandler.UpdateEvent)
				r.Delete("/events/{id}", eventHandler.DeleteEvent)

				r.Get("/rsvps", rsvpHandler.ListRSVPs)
				r.Get("/events/{id}/rsvps", rsvpHandler.ListEventRSVPs)
				r.Patch("/rsvps/{id}/check-in", rsvpHandler.CheckIn)

				r.Get("/tickets/{id}", ticketHandler.GetTicket)
				r.Get("/events/{id}/tickets", ticketHandler.ListEventTickets)
				r.Patch("/tickets/check-in-by-code", ticketHandler.CheckInByCode)
				r.Post("/tickets/check-in-by-qr", ticketHandler.CheckInByQR)
				r.Patch("/tickets/{id}/check-in", ticketHandler.CheckInByID)

				analyticsHandler.RegisterRoutes(r)
			})
			log.Info("ROUTER", "Organizer routes registered under /api")

			// --- Admin Routes ---
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin))

				adminHandler.RegisterRoutes(r)
				r.Get("/contact", contactHandler.List)
				r.Patch("/contact/{id}", contactHandler.SetStatus)
				r.Post("/contact/{id}/respond", contactHandler.Respond)
			})
			log.Info("ROUTER", "Admin routes registered under /api/admin")
		})
	})

	addr := cfg.Server.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info("REDIS", "Starting ticket hold expiry subscription")
	subscribeHoldExpiry(redisClient, ticketService, log)

	if kafkaProducer != nil {
		notifier := notify.New(mail, log, cfg.Email.AdminEmail)
		notifier.StartRSVPConsumer(ctx, cfg.Kafka.Brokers, cfg.Kafka)
		notifier.StartTicketConsumer(ctx, cfg.Kafka.Brokers, cfg.Kafka)
		log.Info("KAFKA", "Notification consumers started")
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 LUME API running on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ LUME API shutdown complete")
	}
}
