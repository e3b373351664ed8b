// Migration script to hash legacy plaintext passwords of students and staff
// cmd/migrate-passwords/main.go
package main

import (
	"log"

	"research-registry-api/config"
	"research-registry-api/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type account struct {
	ID       int
	Password string
}

func migrateTable(db *gorm.DB, table, idColumn string) (updated, skipped int) {
	var accounts []account
	if err := db.Table(table).Select(idColumn + " AS id, password").Scan(&accounts).Error; err != nil {
		log.Fatalf("Failed to fetch %s: %v", table, err)
	}

	for _, a := range accounts {
		if a.Password == "" || utils.IsPasswordHashed(a.Password) {
			skipped++
			continue
		}

		hashed, err := utils.HashPassword(a.Password)
		if err != nil {
			log.Printf("Failed to hash password for %s %d: %v", table, a.ID, err)
			continue
		}
		if err := db.Table(table).Where(idColumn+" = ?", a.ID).Update("password", hashed).Error; err != nil {
			log.Printf("Failed to update password for %s %d: %v", table, a.ID, err)
			continue
		}
		updated++
	}
	return updated, skipped
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	for _, t := range []struct{ table, id string }{
		{"students", "student_id"},
		{"staff_accounts", "staff_id"},
	} {
		updated, skipped := migrateTable(config.DB, t.table, t.id)
		log.Printf("%s: %d hashed, %d already hashed or empty", t.table, updated, skipped)
	}

	log.Println("Password migration completed!")
}
