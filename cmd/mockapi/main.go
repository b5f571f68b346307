package main

import (
	"log"
	"net/http"
	"os"

	"github.com/dev-avwi/TradieTrack-sub006/internal/config"
	"github.com/dev-avwi/TradieTrack-sub006/internal/database"
	"github.com/dev-avwi/TradieTrack-sub006/internal/handlers"
	"github.com/dev-avwi/TradieTrack-sub006/internal/middleware"
	"github.com/dev-avwi/TradieTrack-sub006/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 TRADIETRACK DEV API STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	log.Println("📂 Loading environment variables...")
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: TRADIETRACK_JWT_SECRET environment variable is required")
		log.Println("   Please set it in .env or the environment")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("TRADIETRACK_JWT_SECRET environment variable is required")
	}

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("🌱 Seeding database with demo data...")
	if err := database.SeedTeamMembers(db); err != nil {
		log.Printf("❌ FATAL ERROR: Team seeding failed: %v", err)
		log.Fatal(err)
	}
	if err := database.SeedJobs(db); err != nil {
		log.Printf("❌ FATAL ERROR: Job seeding failed: %v", err)
		log.Fatal(err)
	}
	log.Println("✅ Demo data seeded")

	// WebSocket hub for live job/team updates
	hub := websocket.NewHub()
	go hub.Run()
	log.Println("✅ WebSocket hub started")

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/login", handlers.Login(db))
		r.Get("/health", handlers.Health())

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Get("/jobs/today", handlers.GetTodayJobs(db))
			r.Get("/jobs", handlers.GetJobs(db))
			r.Post("/jobs/{id}/assign", handlers.AssignJob(db, hub))
			r.Patch("/jobs/{id}/status", handlers.UpdateJobStatus(db, hub))

			r.Get("/team/members", handlers.GetTeamMembers(db))
			r.Post("/timesheets", handlers.CreateTimesheetEntry(db))
			r.Get("/dashboard/summary", handlers.GetDashboardSummary(db))
		})
	})

	r.Get("/ws", websocket.HandleWebSocket(hub))

	port := cfg.Port
	if os.Getenv("PORT") == "" {
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
