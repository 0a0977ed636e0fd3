// Command createadmin bootstraps an administrator account. Admins cannot be
// created over the HTTP API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/prompt"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/auth"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/config"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/services"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	in := bufio.NewReader(os.Stdin)
	username, err := prompt.Text(in, "Username", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	email, err := prompt.Text(in, "Email", os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	password, err := prompt.NewPassword(os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, rm, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)
	authority := auth.NewAuthority([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	users := services.NewUserService(db, rm, cfg, authority, logger)

	err = createAdmin(ctx, users, username, email, password, os.Stdout)
	db.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

type adminCreator interface {
	CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

func createAdmin(ctx context.Context, users adminCreator, username, email, password string, out io.Writer) error {
	admin, err := users.CreateAdmin(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Fprintf(out, "admin %s created with id %s\n", admin.Email, admin.ID)
	return nil
}
