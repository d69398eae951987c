// Command create-admin seeds an administrator account.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/pkg/config"
	pkgdb "github.com/Skotchmaster/incident_service/pkg/db"
	"github.com/Skotchmaster/incident_service/pkg/hash"
)

func main() {
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "admin123", "admin password")
	level := flag.Int("level", models.LevelAdmin, "admin level (1 operator, 2 full admin)")
	flag.Parse()

	if *level < models.LevelOperator || *level > models.LevelAdmin {
		log.Fatalf("level must be %d or %d", models.LevelOperator, models.LevelAdmin)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = pkgdb.Close(db) }()

	if err := pkgdb.Migrate(db, &models.User{}, &models.Incident{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rp := &repo.GormRepo{DB: db}
	exists, err := rp.EmailExists(ctx, *email)
	if err != nil {
		log.Fatalf("lookup: %v", err)
	}
	if exists {
		log.Printf("user %s already exists, nothing to do", *email)
		return
	}

	h, err := hash.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u := &models.User{Email: *email, PasswordHash: h, IsAdmin: true, AdminLevel: *level}
	if err := rp.CreateUser(ctx, u); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s (id=%d, level=%d)", u.Email, u.ID, u.AdminLevel)
}
