package database

import (
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver - registered for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// DB holds the database connection pool (exported so other packages can use it)
var DB *sqlx.DB

// Connect initializes the database connection using variables from the .env file
// or the process environment. Missing values fall back to local-dev defaults,
// except DB_PASSWORD which is required.
func Connect() {
	// Load .env if present; env vars set in the system still take effect without it.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: Could not load .env file:", err)
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "api_user"
	}
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		log.Fatal("FATAL: DB_PASSWORD environment variable is not set or .env file not loaded correctly")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "learnlab_db"
	}
	dbSSLMode := os.Getenv("DB_SSLMODE")
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	// sqlx.Connect combines opening the connection and pinging it
	db, err := sqlx.Connect("pgx", connStr)
	if err != nil {
		log.Fatalf("FATAL: Unable to connect to database: %v\n", err)
	}

	DB = db
	log.Println("Successfully connected to the database!")
}
