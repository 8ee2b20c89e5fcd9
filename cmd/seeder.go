package cmd

import (
	"fmt"
	"log"

	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the four roles and a sample user per role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"grades", "evaluations", "study_leaves", "early_closures", "comments", "message_recipients", "messages", "users", "roles"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		roles := []string{workflow.RoleAdmin, workflow.RoleHR, workflow.RoleHOS, workflow.RoleStaff}
		for _, name := range roles {
			var exists int
			if err := db.Raw("SELECT 1 FROM roles WHERE name = ?", name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO roles (name) VALUES (?)", name).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", name, err)
			}
			fmt.Println("Seeded role:", name)
		}

		hash, err := auth.HashPassword("password", cfg.Security.HashIterations)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []struct {
			First, Last, Email, Phone, Role string
		}{
			{"Amina", "Bello", "admin@dhf.ng", "+2348010000001", workflow.RoleAdmin},
			{"Halima", "Usman", "hr@dhf.ng", "+2348010000002", workflow.RoleHR},
			{"Ibrahim", "Sani", "hos@dhf.ng", "+2348010000003", workflow.RoleHOS},
			{"Fatima", "Yusuf", "staff@dhf.ng", "+2348010000004", workflow.RoleStaff},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}

			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.Role).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found %s: %v", u.Role, err)
			}

			if err := db.Exec(
				"INSERT INTO users (first_name, last_name, email, phone, password, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, now(), now())",
				u.First, u.Last, u.Email, u.Phone, hash, roleID,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}
	},
}
