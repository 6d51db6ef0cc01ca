// Command createadmin bootstraps the first admin account. Registration over
// the API is admin-only, so this is the only way to create the initial user.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skyline-estates/api/internal/config"
	"github.com/skyline-estates/api/internal/database"
	"github.com/skyline-estates/api/internal/models"
	"github.com/skyline-estates/api/internal/utils"
	"github.com/skyline-estates/api/internal/validation"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg := config.Load()
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGODB_URI is not set")
	}

	creds := validation.CredentialsPayload{Username: *username, Password: *password}
	if errs := validation.Register(&creds); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("%s: %s", e.Field, e.Message)
		}
		log.Fatal("Invalid admin credentials")
	}

	connector := database.NewConnector(cfg.Mongo)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := connector.Get(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer connector.Disconnect(context.Background())

	// The unique username index must exist before the insert, or two runs
	// racing each other could both create the user.
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	users := db.Collection("users")
	count, err := users.CountDocuments(ctx, bson.M{"username": *username})
	if err != nil {
		log.Fatalf("Failed to check for existing user: %v", err)
	}
	if count > 0 {
		log.Printf("Admin user %q already exists", *username)
		return
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Username: *username,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if _, err := users.InsertOne(ctx, user); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Admin user %q created", *username)
}
