package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vet_reminder_service/internal/app"
	domainMessaging "vet_reminder_service/internal/domain/messaging"
	"vet_reminder_service/internal/infra/config"
	idb "vet_reminder_service/internal/infra/database"
	"vet_reminder_service/internal/infra/logger"
	"vet_reminder_service/internal/infra/messaging"
	"vet_reminder_service/internal/infra/scheduler"
)

func main() {
	fmt.Println("Vet Reminder Service starting...")

	mainLogger := log.New(os.Stdout, "MAIN: ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)

	mainLogger.Printf("INFO: Configuration loaded. LogLevel: %s, Environment: %s, DefaultCountryCode: %s",
		cfg.LogLevel, cfg.Environment, cfg.DefaultCountryCode)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Println("INFO: Database connection established successfully.")

	// Initialize Repositories
	clinicRepo := idb.NewPostgresClinicRepository(db)
	visitRepo := idb.NewPostgresVisitRepository(db)
	mainLogger.Println("INFO: Repositories initialized.")

	// Initialize the outbound messaging channel. Missing credentials are not
	// fatal: dispatch is disabled and logged once, everything else runs.
	var msgClient domainMessaging.Client
	if cfg.MessagingConfigured() {
		msgClient = messaging.NewTwilioAdapter(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		mainLogger.Println("INFO: Twilio messaging client initialized.")
	} else {
		mainLogger.Println("WARN: Twilio credentials are not configured. Reminder dispatch will be disabled.")
	}

	// Initialize Services
	quotaLogger := log.New(os.Stdout, "QUOTA_SVC: ", log.LstdFlags|log.Lshortfile)
	quotaService := app.NewQuotaCycleService(clinicRepo, quotaLogger)

	dispatchLogger := log.New(os.Stdout, "DISPATCH_SVC: ", log.LstdFlags|log.Lshortfile)
	dispatchService := app.NewReminderDispatchService(visitRepo, clinicRepo, msgClient, dispatchLogger, cfg.DefaultCountryCode)
	mainLogger.Println("INFO: Quota cycle and reminder dispatch services initialized.")

	// Initialize ReminderScheduler: quota reset fires before dispatch.
	schedulerLogger := log.New(os.Stdout, "SCHEDULER: ", log.LstdFlags|log.Lshortfile)
	reminderScheduler := scheduler.NewReminderScheduler(
		quotaService,
		dispatchService,
		schedulerLogger,
		cfg.CronSpecQuotaReset,
		cfg.CronSpecDispatch,
	)
	reminderScheduler.Start()

	mainLogger.Println("INFO: Application setup complete. Scheduler is running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Println("INFO: Shutting down application...")
	reminderScheduler.Stop()
	// db.Close() is handled by defer
	mainLogger.Println("INFO: Application shut down gracefully.")
}
