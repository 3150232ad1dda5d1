package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"f1-telegram-bot/config"
	"f1-telegram-bot/internal/cache"
	"f1-telegram-bot/internal/commands"
	"f1-telegram-bot/internal/database"
	"f1-telegram-bot/internal/ergast"
	"f1-telegram-bot/internal/telegram"
	"f1-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const metricsSaveInterval = 5 * time.Minute

func main() {
	Execute()
}

func run(ctx context.Context) error {
	translation.Configure("locales", config.GetString("lang"))
	log.Debugf("Using locale %s", translation.GetLanguage())

	metrics := NewBotMetrics(prometheus.DefaultRegisterer)

	store, err := openStore(config.GetString("db_path"))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		metrics.LoadFromDB(store)
	}

	api, err := ergast.NewClient(config.GetString("api_base_url"), config.GetDuration("http_timeout"))
	if err != nil {
		return errors.Wrap(err, "invalid api_base_url")
	}
	responses := cache.New(api,
		cache.WithTTL(config.GetDuration("cache_ttl")),
		cache.WithObserver(metrics.ObserveCache),
	)

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
		CommandTimeout: config.GetDuration("command_timeout"),
		SourceURL:      config.GetString("api_base_url"),
	}, commands.New(responses, api))
	if err != nil {
		return errors.Wrap(err, "failed to create bot")
	}
	bot.OnCommand(metrics.ObserveCommand)

	if err := bot.RegisterCommands(); err != nil {
		log.Error(err)
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		return errors.Wrap(err, "failed to get updates channel")
	}

	go handleUpdates(ctx, bot, metrics, updates)

	if store != nil {
		go func() {
			ticker := time.NewTicker(metricsSaveInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					metrics.SaveToDB(store)
				}
			}
		}()
	}

	srv := newMetricsAndHealthServer(config.GetInt("metrics_port"))
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Launching metrics and health endpoint on %s", srv.Addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		err = errors.Wrap(err, "metrics and health server stopped")
	}

	bot.Bot.StopReceivingUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Errorf("Failed to shut down metrics and health server: %v", shutdownErr)
	}

	if store != nil {
		metrics.SaveToDB(store)
		log.Info("Metrics saved, shutting down...")
	}
	return err
}

// openStore returns nil when persistence is disabled with an empty path.
func openStore(dbPath string) (*database.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	store, err := database.Open(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}
	return store, nil
}

func handleUpdates(ctx context.Context, bot *telegram.Bot, metrics *BotMetrics, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			log.Debug("Received non-message or non-command")
			continue
		}

		metrics.MessagesHandled.Inc()

		chatID := update.Message.Chat.ID
		chatName := update.Message.Chat.Title
		if chatName == "" {
			chatName = fmt.Sprintf("%s-%d", "PrivateChat", chatID)
		}

		metrics.updateChannelsSet(chatID, chatName)

		metrics.MessagesPerChannel.WithLabelValues(
			fmt.Sprintf("%d", chatID), chatName,
		).Inc()

		go handleCommand(ctx, bot, metrics, update)
	}
}

func handleCommand(ctx context.Context, bot *telegram.Bot, metrics *BotMetrics, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 4096)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	if err := bot.HandleUpdate(ctx, update); err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func newMetricsAndHealthServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthCheckHandler)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
