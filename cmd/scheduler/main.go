package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/config"
	"github.com/creditosas/prestamo-engine/internal/database"
	"github.com/creditosas/prestamo-engine/internal/notify"
	"github.com/creditosas/prestamo-engine/internal/repository"
	"github.com/creditosas/prestamo-engine/internal/service"
)

const reminderRunTimeout = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}
	setupLogging(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	sender := notify.NewWhatsAppGateway(cfg.WhatsApp.GatewayURL, cfg.WhatsApp.Token, cfg.GetWhatsAppWait())
	reminders := service.NewReminderService(loanRepo, settingRepo, sender, cfg.GetLocation())

	c := cron.New(cron.WithLocation(cfg.GetLocation()))

	// Daily reminder pass for installments that fell due the previous day.
	spec := fmt.Sprintf("0 %d * * *", cfg.Scheduler.ReminderHour)
	if _, err := c.AddFunc(spec, func() { runReminders(reminders) }); err != nil {
		log.WithError(err).Fatal("scheduling reminder job")
	}

	c.Start()
	log.WithFields(log.Fields{
		"hour":     cfg.Scheduler.ReminderHour,
		"timezone": cfg.Scheduler.Timezone,
	}).Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down scheduler")
	<-c.Stop().Done()
	log.Info("scheduler stopped")
}

func runReminders(reminders *service.ReminderService) {
	ctx, cancel := context.WithTimeout(context.Background(), reminderRunTimeout)
	defer cancel()

	sent, err := reminders.Run(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("reminder pass failed")
		return
	}
	log.WithField("sent", sent).Info("reminder pass finished")
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
