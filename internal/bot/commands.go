package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"referral-bot/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	var code string
	if args := strings.Fields(msg.CommandArguments()); len(args) > 0 {
		code = args[0]
	}

	res, err := b.referralSvc.Join(ctx, msg.From.ID, code)
	if err != nil {
		return b.fail(msg.Chat.ID, err)
	}
	log.Printf("[info] join user=%d created=%t referrer=%d balance=%d", msg.From.ID, res.Created, res.ReferrerID, res.Balance)

	if res.ReferrerID != 0 {
		if err := b.sendText(res.ReferrerID, fmt.Sprintf(textReferralBonus, b.referralSvc.Rules().ReferralBonus)); err != nil {
			log.Printf("notify referrer %d: %v", res.ReferrerID, err)
		}
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "دوست"
	}

	var text strings.Builder
	if res.Created {
		text.WriteString(fmt.Sprintf(textWelcome, escape(name), res.BonusGranted))
	} else {
		text.WriteString(fmt.Sprintf(textWelcomeBack, escape(name), res.Balance))
	}
	if link := b.referralLink(msg.From.ID); link != "" {
		text.WriteString("\n\n")
		text.WriteString(fmt.Sprintf(textReferralLink, link))
	}
	return b.sendText(msg.Chat.ID, text.String())
}

func (b *Bot) handlePoints(ctx context.Context, msg *tgbotapi.Message) error {
	bal, err := b.referralSvc.Balance(ctx, msg.From.ID)
	if err != nil {
		return b.fail(msg.Chat.ID, err)
	}
	rules := b.referralSvc.Rules()
	text := fmt.Sprintf(textBalance, bal.Points, escape(rules.Currency), bal.Amount.StringFixed(2), bal.Referrals)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleWithdraw(ctx context.Context, msg *tgbotapi.Message) error {
	rules := b.referralSvc.Rules()
	req, err := b.referralSvc.Withdraw(ctx, msg.From.ID, strings.Fields(msg.CommandArguments()))
	switch {
	case errors.Is(err, service.ErrBelowMinimum):
		return b.sendText(msg.Chat.ID, fmt.Sprintf(textBelowMinimum, rules.MinWithdrawPoints))
	case errors.Is(err, service.ErrUsage):
		return b.sendText(msg.Chat.ID, textWithdrawUsage)
	case err != nil:
		return b.fail(msg.Chat.ID, err)
	}
	log.Printf("[info] withdrawal queued id=%d ref=%s user=%d points=%d", req.ID, req.Reference, req.UserID, req.Points)

	replyErr := b.sendText(msg.Chat.ID, fmt.Sprintf(textWithdrawQueued, req.Reference))

	adminText := fmt.Sprintf(textAdminWithdraw,
		req.UserID, escape(req.Method), escape(req.Account), req.Points,
		rules.FormatAmount(req.Points), escape(rules.Currency), req.Reference)
	if err := b.notifyAll(b.config.AdminIDs, adminText); err != nil {
		log.Printf("notify admins about withdrawal %d: %v", req.ID, err)
	}
	return replyErr
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	rules := b.referralSvc.Rules()
	text := fmt.Sprintf(textHelp, rules.JoinBonus, rules.ReferralBonus, rules.MinWithdrawPoints, escape(b.config.ChannelUsername))
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handlePending(ctx context.Context, msg *tgbotapi.Message) error {
	text, _, err := b.digestSvc.PendingSummary(ctx, time.Now())
	if err != nil {
		return b.fail(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

// SendPendingDigest sends the pending-withdrawal summary to every admin. Nothing is sent when the queue is empty.
func (b *Bot) SendPendingDigest(ctx context.Context) error {
	if len(b.config.AdminIDs) == 0 {
		return nil
	}
	text, count, err := b.digestSvc.PendingSummary(ctx, time.Now())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	log.Printf("[info] sending pending digest count=%d admins=%d", count, len(b.config.AdminIDs))
	return b.notifyAll(b.config.AdminIDs, text)
}

func (b *Bot) referralLink(userID int64) string {
	if b.username == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%d", b.username, userID)
}
