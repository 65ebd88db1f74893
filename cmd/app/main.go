package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"warehouse/cmd"
	httpin "warehouse/internal/adapters/in/http"
	"warehouse/internal/adapters/out/postgres/inventoryrepo"
	"warehouse/internal/adapters/out/postgres/productrepo"
	"warehouse/internal/adapters/out/postgres/taskrepo"
	"warehouse/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	db := mustOpenDB(configs)

	app := cmd.NewCompositionRoot(configs, db)

	// Re-arm the commitment registry from persisted in-progress items
	// before accepting any traffic.
	if err := app.RearmAllocationResolver(context.Background()); err != nil {
		log.Fatalf("Failed to re-arm allocation resolver: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(app.CreateRetireTasksCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&productrepo.ProductDTO{},
		&inventoryrepo.InventoryRecordDTO{},
		&inventoryrepo.StorageLocationDTO{},
		&taskrepo.TaskDTO{},
		&taskrepo.ItemDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateCreateTaskCommandHandler(),
		app.CreateAdvanceItemCommandHandler(),
		app.CreateCancelItemCommandHandler(),
		app.CreateShipTaskCommandHandler(),
		app.CreateListTasksQueryHandler(),
		app.CreateStockSnapshotQueryHandler(),
		app.CreateFindCandidatesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
