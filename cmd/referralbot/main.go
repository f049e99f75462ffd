package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"referral-bot/internal/bot"
	"referral-bot/internal/config"
	"referral-bot/internal/repository"
	"referral-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	store := repository.NewStore(db)
	rules := service.RulesFromConfig(cfg)
	referralSvc := service.NewReferralService(store, rules)
	digestSvc := service.NewDigestService(store, rules)

	telegramBot, err := bot.New(cfg.TelegramToken, referralSvc, digestSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if err := scheduleDigest(scheduler, cfg, telegramBot); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if scheduler.Len() > 0 {
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Printf("Referral bot started. admins=%d join=%d referral=%d min_withdraw=%d",
		len(cfg.AdminIDs), cfg.JoinBonus, cfg.ReferralBonus, cfg.MinWithdrawPoints)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

// scheduleDigest registers the pending-withdrawal digest: daily at PENDING_DIGEST_AT when set,
// otherwise every PENDING_DIGEST_INTERVAL.
func scheduleDigest(scheduler *service.SchedulerService, cfg config.Config, telegramBot *bot.Bot) error {
	if len(cfg.AdminIDs) == 0 {
		return nil
	}
	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendPendingDigest(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("pending digest: %v", err)
		}
	}
	switch {
	case cfg.DigestAt != "":
		_, err := scheduler.ScheduleDaily(cfg.DigestAt, job)
		return err
	case cfg.DigestInterval > 0:
		_, err := scheduler.ScheduleInterval(cfg.DigestInterval, job)
		return err
	default:
		return nil
	}
}
