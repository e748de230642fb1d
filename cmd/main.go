package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/db"
	"github.com/tanimitra/procurement-service/internal/handlers"
	"github.com/tanimitra/procurement-service/internal/repository"
	"github.com/tanimitra/procurement-service/internal/router"
	"github.com/tanimitra/procurement-service/internal/router/config"
	"github.com/tanimitra/procurement-service/internal/services"
	"github.com/tanimitra/procurement-service/internal/settings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	settings.Init(settings.Snapshot{
		DefaultPageLimit: cfg.DefaultPageLimit,
		MaxPageLimit:     cfg.MaxPageLimit,
	})
	go logSettingsChanges(logger)

	assignmentRepo := repository.NewPostgresAssignmentRepository(dbPool)
	offeringRepo := repository.NewPostgresOfferingRepository(dbPool)
	approvalRepo := repository.NewPostgresApprovalRepository(dbPool)
	actorRepo := repository.NewPostgresActorRepository(dbPool)

	policy := authz.NewRolePolicy(actorRepo)

	assignmentService := services.NewAssignmentService(assignmentRepo, policy)
	offeringService := services.NewOfferingService(offeringRepo, assignmentRepo, policy)
	approvalService := services.NewApprovalService(approvalRepo, assignmentRepo, offeringRepo, policy)
	eligibilityService := services.NewEligibilityService(assignmentRepo, approvalRepo)

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, logger, timeout)
	offeringHandler := handlers.NewOfferingHandler(offeringService, logger, timeout)
	approvalHandler := handlers.NewApprovalHandler(approvalService, logger, timeout)
	eligibilityHandler := handlers.NewEligibilityHandler(eligibilityService, logger, timeout)
	settingsHandler := handlers.NewSettingsHandler(policy, logger, timeout)

	routes := router.InitRoutes(assignmentHandler, offeringHandler, approvalHandler, eligibilityHandler, settingsHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}

func logSettingsChanges(logger *log.Logger) {
	updates, cancel := settings.Subscribe()
	defer cancel()
	for snap := range updates {
		logger.Printf("settings changed: intakePaused=%t defaultPageLimit=%d maxPageLimit=%d",
			snap.IntakePaused, snap.DefaultPageLimit, snap.MaxPageLimit)
	}
}
