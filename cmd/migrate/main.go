package main

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"revpulse/internal/platform/config"
	"revpulse/internal/platform/database"
	"revpulse/internal/platform/models"
	"revpulse/internal/platform/repositories"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	seed := flag.Bool("seed", false, "Seed a demo workspace with integrations and a dashboard key")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migration completed successfully")

	if *seed {
		if err := seedDemo(db); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
	}
}

func seedDemo(db *sql.DB) error {
	wsRepo := repositories.NewWorkspaceRepository(db)
	workspace := &models.Workspace{Name: "Demo Workspace"}
	if err := wsRepo.Create(workspace); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	intRepo := repositories.NewIntegrationRepository(db)
	for _, providerType := range []string{"stripe", "chargify", "shopify"} {
		secret, err := randomToken(16)
		if err != nil {
			return err
		}
		integration := &models.Integration{
			WorkspaceID:     workspace.ID,
			IntegrationType: providerType,
			WebhookSecret:   secret,
			IsActive:        true,
		}
		if err := intRepo.Create(integration); err != nil {
			return fmt.Errorf("create %s integration: %w", providerType, err)
		}
		log.Printf("Seeded %s integration (secret: %s)", providerType, secret)
	}

	rawKey, prefix, err := generateDashboardKey()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dashboard key: %w", err)
	}

	keyRepo := repositories.NewDashboardKeyRepository(db)
	if err := keyRepo.Create(&models.DashboardKey{
		WorkspaceID: workspace.ID,
		Name:        "seed key",
		KeyHash:     string(hash),
		KeyPrefix:   prefix,
	}); err != nil {
		return fmt.Errorf("create dashboard key: %w", err)
	}

	fmt.Printf("Workspace: %s\n", workspace.ID)
	fmt.Printf("Dashboard API key (store it now, it is not shown again): %s\n", rawKey)
	return nil
}

// generateDashboardKey builds a key of the form rpk_<prefix>_<secret> where
// only a bcrypt hash of the full key is persisted.
func generateDashboardKey() (raw string, prefix string, err error) {
	prefixPart, err := randomToken(4)
	if err != nil {
		return "", "", err
	}
	secretPart, err := randomToken(16)
	if err != nil {
		return "", "", err
	}
	raw = strings.Join([]string{"rpk", prefixPart, secretPart}, "_")
	return raw, "rpk_" + prefixPart, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
