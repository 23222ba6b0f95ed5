package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-class-bot/internal/config"
	"telegram-class-bot/internal/database"
	"telegram-class-bot/internal/repositories"
	"telegram-class-bot/internal/services"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.LoadConfig()
	log.Info().Str("env", cfg.Env).Msg("Starting telegram-class-bot")

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	attendanceRepo := repositories.NewAttendanceRepo(db.GORM)
	cmdService := services.NewCommandService(attendanceRepo)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect Telegram bot")
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("Bot authorized")

	// liveness endpoint for hosted deploys that require a bound port
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "telegram-class-bot"})
	})
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("Health server stopped")
		}
	}()

	// drop updates queued while the bot was offline
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		log.Warn().Err(err).Msg("Failed to drop pending updates")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			handleUpdate(bot, cmdService, update)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down...")
	bot.StopReceivingUpdates()
	_ = app.Shutdown()
	log.Info().Msg("Goodbye 👋")
}

func handleUpdate(bot *tgbotapi.BotAPI, svc *services.CommandService, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	msg := update.Message
	from := msg.From
	if from == nil {
		return
	}
	name := from.UserName
	if name == "" {
		name = from.FirstName
	}

	var reply string
	switch msg.Command() {
	case "start":
		reply = svc.Start()
	case "today":
		reply = svc.RecordToday(from.ID, name)
	case "record":
		reply = svc.RecordDate(from.ID, name, msg.CommandArguments())
	case "remove":
		reply = svc.Remove(from.ID, msg.CommandArguments())
	case "check":
		reply = svc.Check()
	default:
		return
	}

	if _, err := bot.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Failed to send reply")
	}
}
