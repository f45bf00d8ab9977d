package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"habitflow/internal/repository"
)

// TelegramNotifier delivers reminder digests to bound Telegram chats and
// handles the /link command that pairs a chat with an account.
type TelegramNotifier struct {
	api      *tgbotapi.BotAPI
	userRepo *repository.UserRepository
}

func NewTelegramNotifier(token string, userRepo *repository.UserRepository) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] telegram notifier authorized on account %s", api.Self.UserName)

	return &TelegramNotifier{api: api, userRepo: userRepo}, nil
}

// Notify sends one HTML-formatted message to the chat.
func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Start begins polling updates until ctx is cancelled. Only the pairing
// commands are handled; everything else gets a short hint.
func (n *TelegramNotifier) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := n.api.GetUpdatesChan(updateConfig)

	log.Println("[info] telegram notifier polling updates")

	go func() {
		<-ctx.Done()
		n.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := n.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

func (n *TelegramNotifier) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return n.sendText(msg.Chat.ID, "Send /link <code> to connect your account, or /unlink to stop reminders.")
	}

	log.Printf("[info] command from chat %d: /%s", msg.Chat.ID, msg.Command())

	switch msg.Command() {
	case "start", "help":
		return n.sendText(msg.Chat.ID,
			"👋 I deliver your daily digest.\n\n"+
				"• /link &lt;code&gt; — connect this chat using the link code from your profile\n"+
				"• /unlink — stop reminders in this chat")
	case "link":
		return n.handleLink(ctx, msg)
	case "unlink":
		return n.handleUnlink(ctx, msg)
	default:
		return n.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (n *TelegramNotifier) handleLink(ctx context.Context, msg *tgbotapi.Message) error {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		return n.sendText(msg.Chat.ID, "Usage: /link &lt;code&gt; — find the code on your profile screen.")
	}

	user, err := n.userRepo.FindByLinkCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return n.sendText(msg.Chat.ID, "That code doesn't match any account. Double-check and try again.")
		}
		return err
	}

	if err := n.userRepo.BindTelegramChat(ctx, user.ID, msg.Chat.ID); err != nil {
		return err
	}
	log.Printf("[info] chat %d linked to user %d", msg.Chat.ID, user.ID)
	return n.sendText(msg.Chat.ID, "✅ Connected. You'll get your daily digest here.")
}

func (n *TelegramNotifier) handleUnlink(ctx context.Context, msg *tgbotapi.Message) error {
	users, err := n.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if user.TelegramChatID == msg.Chat.ID {
			if err := n.userRepo.BindTelegramChat(ctx, user.ID, 0); err != nil {
				return err
			}
			return n.sendText(msg.Chat.ID, "🔕 Disconnected. No more reminders here.")
		}
	}
	return n.sendText(msg.Chat.ID, "This chat isn't connected to any account.")
}

func (n *TelegramNotifier) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := n.api.Send(msg)
	return err
}
