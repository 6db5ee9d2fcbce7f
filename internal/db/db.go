package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("❌ Database is not responding:", err)
	}

	log.Println("✅ Connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			is_admin TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_username (username),
			UNIQUE KEY uq_email (email)
		);`,
		`CREATE TABLE IF NOT EXISTS sweets (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("Migration error:", err)
		}
	}
	log.Println("Migrations completed")
}

// SeedData creates the default admin account and, when the catalog is empty,
// a handful of sample sweets.
func SeedData(db *sql.DB, adminPassword string) {
	var adminID int
	err := db.QueryRow("SELECT id FROM users WHERE username = ?", "admin").Scan(&adminID)
	if err == sql.ErrNoRows {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("❌ Could not hash admin password:", err)
		}
		_, err = db.Exec(
			"INSERT INTO users (username, email, password_hash, is_admin) VALUES (?, ?, ?, ?)",
			"admin", "admin@sweetshop.com", string(hash), true,
		)
		if err != nil {
			log.Fatal("❌ Could not create admin user:", err)
		}
		log.Println("✅ Default admin user created: username=admin")
	} else if err != nil {
		log.Fatal("❌ Could not check admin user:", err)
	} else {
		log.Println("✅ Admin user already exists")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sweets").Scan(&count); err != nil {
		log.Fatal("❌ Could not check sweets count:", err)
	}
	if count > 0 {
		log.Println("✅ Sweets already exist in database")
		return
	}

	sampleSweets := []struct {
		name     string
		category string
		price    float64
		quantity int
	}{
		{"Gulab Jamun", "Traditional", 50, 100},
		{"Rasgulla", "Traditional", 40, 80},
		{"Chocolate Bar", "Modern", 30, 50},
		{"Ladoo", "Traditional", 45, 120},
	}

	for _, sweet := range sampleSweets {
		_, err := db.Exec(
			"INSERT INTO sweets (name, category, price, quantity) VALUES (?, ?, ?, ?)",
			sweet.name, sweet.category, sweet.price, sweet.quantity,
		)
		if err != nil {
			log.Fatal("❌ Could not insert sample sweet:", err)
		}
	}
	log.Println("✅ Sample sweets added")
}
