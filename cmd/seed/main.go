package main

import (
	"flag"
	"log"
	"strings"

	"github.com/boardhub/api/internal/config"
	"github.com/boardhub/api/internal/database"
	"github.com/boardhub/api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	boardsStr := flag.String("boards", "general,notice", "Comma-separated list of board names to create")
	adminUsername := flag.String("admin-username", "admin", "Username of the admin account")
	adminPassword := flag.String("admin-password", "", "Password of the admin account (skipped when empty)")
	adminEmail := flag.String("admin-email", "admin@localhost", "Email of the admin account")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migration
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	created := seedBoards(db, strings.Split(*boardsStr, ","))
	log.Printf("Boards seeded: %d created", created)

	if *adminPassword != "" {
		if err := seedAdmin(db, *adminUsername, *adminPassword, *adminEmail); err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
		log.Printf("Admin user %q ready", *adminUsername)
	}
}

func seedBoards(db *gorm.DB, names []string) int {
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var board model.Board
		res := db.Where("name = ?", name).FirstOrCreate(&board, model.Board{Name: name})
		if res.Error != nil {
			log.Printf("Error seeding board %q: %v", name, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created
}

func seedAdmin(db *gorm.DB, username, password, email string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user model.User
	res := db.Where("username = ?", username).FirstOrCreate(&user, model.User{
		Username: username,
		Password: string(hashed),
		Email:    email,
		Role:     "ADMIN",
	})
	return res.Error
}
