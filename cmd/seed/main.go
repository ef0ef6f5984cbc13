// seed inserts development sample contacts for local testing.
// Idempotent: skips inserts if the dev contact (dev-contact-001) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"safeguard/backend/internal/config"
	contactdomain "safeguard/backend/internal/contact/domain"
	contactrepo "safeguard/backend/internal/contact/repository"
	"safeguard/backend/internal/db"
)

const (
	momContactID    = "dev-contact-001"
	dadContactID    = "dev-contact-002"
	policeContactID = "dev-contact-003"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := contactrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByID(ctx, momContactID)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev-contact-001 exists). Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()
	seeds := []*contactdomain.Contact{
		{
			ID:          momContactID,
			Name:        "Mom",
			Phone:       "+1234567890",
			Relation:    "family",
			Verified:    true,
			VerifiedAt:  &now,
			AccessLevel: contactdomain.AccessFull,
			Permissions: contactdomain.AllPermissions(),
			Grant:       contactdomain.Grant{Granted: true, GrantedAt: now},
			CreatedAt:   now,
		},
		{
			ID:          dadContactID,
			Name:        "Dad",
			Phone:       "+1234567891",
			Relation:    "family",
			Verified:    true,
			VerifiedAt:  &now,
			AccessLevel: contactdomain.AccessFull,
			Permissions: contactdomain.AllPermissions(),
			Grant:       contactdomain.Grant{Granted: true, GrantedAt: now},
			CreatedAt:   now,
		},
		{
			ID:          policeContactID,
			Name:        "Police",
			Phone:       contactdomain.EmergencyServicesPhone,
			Relation:    "emergency",
			Verified:    true,
			VerifiedAt:  &now,
			AccessLevel: contactdomain.AccessEmergencyOnly,
			Permissions: contactdomain.Permissions{RealtimeLocation: true, EmergencyAlerts: true},
			Grant:       contactdomain.Grant{Granted: true, GrantedAt: now},
			CreatedAt:   now,
		},
	}

	for _, c := range seeds {
		if err := repo.Create(ctx, c); err != nil {
			log.Fatalf("create contact %s: %v", c.Name, err)
		}
	}

	log.Println("Seed complete: Mom, Dad, Police contacts created.")
}
