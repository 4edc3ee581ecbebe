package main

import (
	"flag"
	"log"
	"time"

	"github.com/boardhub/api/internal/config"
	"github.com/boardhub/api/internal/database"
	"github.com/boardhub/api/internal/model"
)

// One-shot maintenance job: removes revocation entries whose tokens expired.
// The server runs the same cleanup in-process; this exists for deployments
// that prefer an external cron.
func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Show what would be flushed without actually flushing")
	flag.Parse()

	startTime := time.Now()
	log.Println("Starting revocation flush job...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	now := time.Now()

	var expired int64
	if err := db.Model(&model.RevokedToken{}).Where("expires_at <= ?", now).Count(&expired).Error; err != nil {
		log.Fatalf("Failed to count expired entries: %v", err)
	}

	if *dryRun {
		log.Printf("Dry run: %d expired revocation entries would be deleted", expired)
		return
	}

	res := db.Where("expires_at <= ?", now).Delete(&model.RevokedToken{})
	if res.Error != nil {
		log.Fatalf("Failed to delete expired entries: %v", res.Error)
	}

	log.Printf("Deleted %d expired revocation entries in %v", res.RowsAffected, time.Since(startTime))
}
