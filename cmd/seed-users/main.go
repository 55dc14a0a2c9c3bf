package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/database"
	"github.com/stemsi/attendance-portal/internal/logger"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/service"
)

var names = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Lukman Hakim", "Maya Septiana", "Nanda Pratama",
	"Oki Setiana", "Putri Dian", "Rafi Ahmad", "Toni Setiawan", "Wahyu Hidayat",
}

func main() {
	count := flag.Int("count", 20, "Number of demo students to create")
	password := flag.String("password", "student123", "Password for every seeded account")
	department := flag.String("department", "Computer Science", "Department for seeded accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.StorageBackend != config.StoragePostgres {
		log.Fatal().Msg("seed-users needs STORAGE_BACKEND=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stores, err := database.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	authService := service.NewAuthService(tokens, stores.Users, stores.Sessions, cfg.BcryptCost, log)

	fmt.Printf("=== Seeding %d Students ===\n", *count)

	created, skipped := 0, 0
	for i := 0; i < *count; i++ {
		studentNumber := fmt.Sprintf("%05d", i+1)
		section := string(rune('A' + i%3))
		req := &model.RegisterRequest{
			FullName:           names[i%len(names)],
			Email:              fmt.Sprintf("student%d@example.edu", i+1),
			Password:           *password,
			Department:         *department,
			RegistrationNumber: fmt.Sprintf("REG-%05d", i+1),
			StudentNumber:      &studentNumber,
			Section:            &section,
		}

		if _, err := authService.CreateAccount(ctx, req, model.RoleUser); err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				skipped++
				continue
			}
			fmt.Printf("Error creating %s (%s): %v\n", req.FullName, req.Email, err)
			continue
		}
		created++
		if created%10 == 0 {
			fmt.Printf("Created %d students...\n", created)
		}
	}

	fmt.Printf("\nSeed completed! Created %d, skipped %d existing of %d.\n", created, skipped, *count)
}
