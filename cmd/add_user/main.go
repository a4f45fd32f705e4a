// Command add_user creates a console user.
//
//	go run ./cmd/add_user -email admin@example.com -password secret123
package main

import (
	"context"
	"flag"
	"log"

	"school-admin/auth"
	"school-admin/config"
	"school-admin/database"
)

func main() {
	email := flag.String("email", "", "user e-mail address")
	password := flag.String("password", "", "user password (at least 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		flag.Usage()
		log.Fatal("❌ -email and a -password of at least 6 characters are required")
	}

	cfg := config.Load()
	backend, err := database.Open(cfg)
	if err != nil {
		log.Fatal("❌ Error initializing database:", err)
	}
	defer backend.Close()

	if err := database.Migrate(backend.DB, "", ""); err != nil {
		log.Fatal("❌ Error running migrations:", err)
	}

	// Users are created without a session store; no sign-in happens here.
	service := auth.NewService(backend.DB, nil, nil)
	user, err := service.CreateUser(context.Background(), *email, *password)
	if err != nil {
		log.Fatal("❌ Error creating user:", database.TranslateError(err))
	}
	log.Printf("✅ Created user %s (%s)", user.Email, user.ID)
}
