package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/database"
	"github.com/stemsi/attendance-portal/internal/logger"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/service"
	"github.com/stemsi/attendance-portal/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.StorageBackend != config.StoragePostgres {
		fmt.Fprintln(os.Stderr, "create-admin needs STORAGE_BACKEND=postgres")
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// ─── Connect Storage ───────────────────────────────────────────────
	stores, err := database.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	authService := service.NewAuthService(tokens, stores.Users, stores.Sessions, cfg.BcryptCost, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Administrator ===")

	req := &model.RegisterRequest{
		FullName:           prompt(reader, "Enter Full Name: "),
		Email:              prompt(reader, "Enter Email: "),
		Department:         prompt(reader, "Enter Department: "),
		RegistrationNumber: prompt(reader, "Enter Registration Number: "),
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	req.Password = string(bytePassword)
	fmt.Println() // Newline after password input

	if fields := validator.Validate(req); fields != nil {
		for field, msg := range fields {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := authService.CreateAccount(ctx, req, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fmt.Printf("Error: %s is already registered\n", req.Email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", admin.FullName, admin.Email, admin.ID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
