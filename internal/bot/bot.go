package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"referral-bot/internal/config"
	"referral-bot/internal/service"
)

// sender is the part of tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot dispatches Telegram commands to the referral service.
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	username    string
	referralSvc *service.ReferralService
	digestSvc   *service.DigestService
	config      *config.Config
	limiter     *userLimiter
	inflight    sync.WaitGroup
}

func New(token string, referralSvc *service.ReferralService, digestSvc *service.DigestService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, api.Self.UserName, referralSvc, digestSvc, cfg)
	b.api = api
	return b, nil
}

func newBot(s sender, username string, referralSvc *service.ReferralService, digestSvc *service.DigestService, cfg *config.Config) *Bot {
	return &Bot{
		sender:      s,
		username:    username,
		referralSvc: referralSvc,
		digestSvc:   digestSvc,
		config:      cfg,
		limiter:     newUserLimiter(cfg.CommandRate, cfg.CommandBurst),
	}
}

// Start begins polling updates until ctx is cancelled. Each message is handled on its own
// goroutine; Start returns once the in-flight handlers are done.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	// Handlers finish their store writes even while shutting down.
	handlerCtx := context.WithoutCancel(ctx)
	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			continue
		}
		b.inflight.Add(1)
		go func() {
			defer b.inflight.Done()
			if err := b.handleMessage(handlerCtx, msg); err != nil {
				log.Printf("handle message: %v", err)
			}
		}()
	}

	b.inflight.Wait()
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, textUnknown)
	}

	if !b.limiter.Allow(msg.From.ID) {
		log.Printf("[info] rate limited user=%d command=/%s", msg.From.ID, msg.Command())
		return b.sendText(msg.Chat.ID, textSlowDown)
	}

	log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
	return b.handleCommand(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "points":
		return b.handlePoints(ctx, msg)
	case "withdraw":
		return b.handleWithdraw(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "pending":
		if b.config.IsAdmin(msg.From.ID) {
			return b.handlePending(ctx, msg)
		}
		return b.sendText(msg.Chat.ID, textUnknown)
	default:
		return b.sendText(msg.Chat.ID, textUnknown)
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.sender.Send(msg)
	return err
}

// fail tells the user the command did not go through and hands err back to the update loop for logging.
func (b *Bot) fail(chatID int64, err error) error {
	if sendErr := b.sendText(chatID, textFailure); sendErr != nil {
		log.Printf("send failure notice to %d: %v", chatID, sendErr)
	}
	return err
}

func escape(s string) string {
	return html.EscapeString(s)
}
