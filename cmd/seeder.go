package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with back-office agents",
	Long:  `Seed the database with agent accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		agents := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"agent@raccordement.example", "Agent Demo", "agent"},
			{"manager@raccordement.example", "Manager Demo", "manager"},
		}

		for _, a := range agents {
			var exists int
			row := db.Raw("SELECT 1 FROM agents WHERE email = ?", a.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("agent already exists:", a.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO agents (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				a.Email, a.Name, string(hash), a.Role,
			).Error; err != nil {
				log.Fatalf("failed to insert agent %s: %v", a.Email, err)
			}
			fmt.Println("Seeded agent:", a.Email)
		}
	},
}
