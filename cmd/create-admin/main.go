// Command create-admin provisions a back-office account.
//
//	create-admin -email ops@example.com
//
// The password is read from ADMIN_PASSWORD, or from -password.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/gala-seating/internal/config"
	"github.com/iliyamo/gala-seating/internal/database"
	"github.com/iliyamo/gala-seating/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (default $ADMIN_PASSWORD)")
	flag.Parse()

	if err := run(*email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "create-admin:", err)
		os.Exit(1)
	}
}

func run(email, password string) error {
	if email == "" {
		return errors.New("-email is required")
	}
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := repository.NewUserRepo(db).CreateAdmin(ctx, email, password, cfg.BcryptCost)
	if err != nil {
		return err
	}
	fmt.Printf("created admin %s (id=%d)\n", email, id)
	return nil
}
