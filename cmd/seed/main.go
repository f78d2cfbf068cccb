package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"blogcms/database"
	"blogcms/internal/config"
	"blogcms/internal/logger"
	"blogcms/internal/repository"
	"blogcms/internal/services"
)

func main() {
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
	username := adminCmd.String("username", "admin", "Username of the account to create")
	password := adminCmd.String("password", "", "Password (8 characters to 72 bytes)")

	categoriesCmd := flag.NewFlagSet("categories", flag.ExitOnError)
	names := categoriesCmd.String("names", "", "Comma separated category names")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "admin":
		adminCmd.Parse(os.Args[2:])
		if *password == "" {
			log.Fatal("--password is required")
		}
	case "categories":
		categoriesCmd.Parse(os.Args[2:])
		if strings.TrimSpace(*names) == "" {
			log.Fatal("--names is required")
		}
	case "help":
		printHelp()
		return
	default:
		fmt.Printf("Unknown subcommand: %s\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	seedLogger, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	db, err := database.Connect(cfg, seedLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "admin":
		auth := services.NewAuthService(
			repository.NewAccountRepository(db),
			repository.NewSessionRepository(db),
			services.AuthConfig{Secret: cfg.JWTSecret, SessionTTL: cfg.SessionTTL},
			seedLogger,
		)
		account, err := auth.Signup(ctx, *username, *password)
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Printf("Account %q already exists, nothing to do", *username)
			return
		}
		if err != nil {
			log.Fatalf("Error creating account: %v", err)
		}
		log.Printf("Created account %q (id %d)", account.Username, account.ID)

	case "categories":
		categories := repository.NewCategoryRepository(db)
		for _, name := range strings.Split(*names, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			category, created, err := categories.FindOrCreate(ctx, name)
			if err != nil {
				log.Fatalf("Error creating category %q: %v", name, err)
			}
			if created {
				log.Printf("Created category %q (id %d)", category.Name, category.ID)
			} else {
				log.Printf("Category %q already exists (id %d)", category.Name, category.ID)
			}
		}
	}
}

func printHelp() {
	fmt.Println("Database seeding tool for blogcms")
	fmt.Println("\nUsage:")
	fmt.Println("  seed COMMAND [OPTIONS]")
	fmt.Println("\nCommands:")
	fmt.Println("  admin        Create an administrator account")
	fmt.Println("               Options:")
	fmt.Println("                 --username=NAME  Username (default: admin)")
	fmt.Println("                 --password=PASS  Password, 8 characters to 72 bytes")
	fmt.Println("")
	fmt.Println("  categories   Create categories that do not exist yet")
	fmt.Println("               Options:")
	fmt.Println("                 --names=a,b,c    Comma separated names")
	fmt.Println("")
	fmt.Println("  help         Show this help message")
	fmt.Println("")
	fmt.Println("The database is selected with the same DB_* variables as the server.")
}
