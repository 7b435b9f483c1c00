package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"gamescope/app/internal/config"
	"gamescope/app/internal/database"
	"gamescope/app/internal/handler"
	"gamescope/app/internal/seed"

	"github.com/rs/cors"
)

func init() {
	config.LoadConfig()
}

// @title           GameScope API
// @version         1.0
// @description     Auth and document store behind the GameScope client.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	// Connect to the database
	database.Connect(cfg.DatabaseURL)

	docs, err := database.OpenDocuments(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s document store: %v", cfg.StoreDriver, err)
	}
	database.Documents = docs
	defer func() {
		if err := docs.Close(context.Background()); err != nil {
			log.Printf("Failed to close document store: %v", err)
		}
	}()
	log.Printf("Document store: %s", cfg.StoreDriver)

	if cfg.SeedFile != "" {
		file, err := seed.Load(cfg.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		res, err := seed.Apply(context.Background(), docs, file)
		if err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		log.Printf("Catalog seeded: %d created, %d already present", res.Created, res.Skipped)
	}

	router := handler.SetupRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	addr := ":" + cfg.Port
	fmt.Printf("Server is running on %s\n", addr)
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", addr)
	log.Fatal(http.ListenAndServe(addr, corsHandler))
}
