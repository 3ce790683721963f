// cmd/token/main.go mints access tokens for local development.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/pkg/auth"
)

func main() {
	userID := flag.Uint("user", 0, "auth user id")
	username := flag.String("username", "", "username (defaults to user<id>)")
	email := flag.String("email", "", "email address")
	staff := flag.Bool("staff", false, "mint a staff token")
	flag.Parse()

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "Usage: token -user <id> [-username name] [-email addr] [-staff]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		logrus.Fatal("Refusing to mint tokens in production")
	}

	name := *username
	if name == "" {
		name = fmt.Sprintf("user%d", *userID)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(*userID, name, *email, *staff)
	if err != nil {
		logrus.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
