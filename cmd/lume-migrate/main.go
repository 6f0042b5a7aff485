// Command lume-migrate applies schema migrations and optionally
// seeds sample data for local development.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"lume-api/internal/auth"
	"lume-api/internal/config"
	"lume-api/internal/database/migrations"
	"lume-api/internal/models"
)

func main() {
	var (
		down = flag.Bool("down", false, "roll back the most recent migration")
		seed = flag.Bool("seed", false, "insert sample data after migrating")
		dir  = flag.String("dir", "./migrations", "migrations directory")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Database.DSN == "" {
		log.Fatal("POSTGRES_DSN not set")
	}

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL: %v", err)
	}
	defer sqldb.Close()

	ctx := context.Background()
	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	opts := migrations.DefaultOptions()
	opts.MigrationsDir = *dir
	runner := migrations.NewRunner(db, opts)

	if *down {
		log.Println("Rolling back last migration...")
		if err := runner.Down(); err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}
		log.Println("✅ Done.")
		return
	}

	log.Println("Applying migrations...")
	if err := runner.Up(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	version, dirty, err := runner.Version()
	if err != nil {
		log.Printf("Could not read schema version: %v", err)
	} else {
		log.Printf("Schema at version %d (dirty=%v)", version, dirty)
	}

	if *seed {
		log.Println("Seeding sample data...")
		if err := seedData(ctx, db, cfg); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✅ Done.")
}

func seedData(ctx context.Context, db *bun.DB, cfg *config.Config) error {
	adminHash, err := auth.HashPassword("admin-change-me")
	if err != nil {
		return err
	}
	organizerHash, err := auth.HashPassword("organizer-change-me")
	if err != nil {
		return err
	}

	adminEmail := cfg.Email.AdminEmail
	if adminEmail == "" {
		adminEmail = "admin@lume.local"
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		FullName:     "LUME Admin",
		PasswordHash: adminHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    time.Now(),
	}
	organizer := models.User{
		ID:           uuid.NewString(),
		Email:        "organizer@lume.local",
		FullName:     "Sample Organizer",
		PasswordHash: organizerHash,
		Role:         models.RoleOrganizer,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    time.Now(),
	}
	if _, err := db.NewInsert().Model(&admin).On("CONFLICT (email) DO NOTHING").Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewInsert().Model(&organizer).On("CONFLICT (email) DO NOTHING").Exec(ctx); err != nil {
		return err
	}

	now := time.Now()
	events := []models.Event{
		{
			ID:               uuid.NewString(),
			Title:            "Lakeside Acoustic Night",
			Description:      "An open-air acoustic session by the lake.",
			Category:         "Music",
			Price:            0,
			Venue:            "Harbor Park Amphitheater",
			City:             "Portland",
			StartTime:        now.AddDate(0, 1, 0),
			EndTime:          now.AddDate(0, 1, 0).Add(3 * time.Hour),
			TicketsAvailable: 150,
			IsFeatured:       true,
			OrganizerID:      organizer.ID,
			Status:           models.EventStatusPublished,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               uuid.NewString(),
			Title:            "Intro to Woodworking",
			Description:      "Hands-on workshop, tools provided.",
			Category:         "Business",
			Price:            4500,
			Venue:            "Makers Hall",
			City:             "Portland",
			StartTime:        now.AddDate(0, 0, 14),
			EndTime:          now.AddDate(0, 0, 14).Add(4 * time.Hour),
			TicketsAvailable: 20,
			IsHot:            true,
			OrganizerID:      organizer.ID,
			Status:           models.EventStatusPublished,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
	for i := range events {
		if _, err := db.NewInsert().Model(&events[i]).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d users and %d events", 2, len(events))
	return nil
}
