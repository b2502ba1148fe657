package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dskvich/gigachat-telegram-bot/pkg/api"
	"github.com/dskvich/gigachat-telegram-bot/pkg/auth"
	"github.com/dskvich/gigachat-telegram-bot/pkg/gigachat"
	"github.com/dskvich/gigachat-telegram-bot/pkg/logger"
	"github.com/dskvich/gigachat-telegram-bot/pkg/proxyapi"
	"github.com/dskvich/gigachat-telegram-bot/pkg/repository"
	"github.com/dskvich/gigachat-telegram-bot/pkg/services"
	"github.com/dskvich/gigachat-telegram-bot/pkg/telegram"
	"github.com/dskvich/gigachat-telegram-bot/pkg/workers"
)

const telegramBotTokenPlaceholder = "ваш_токен_бота_здесь"

var (
	errBotTokenMissing    = errors.New("TELEGRAM_BOT_TOKEN is missing or not filled in")
	errCredentialsMissing = errors.New("GigaChat credentials are missing: set GIGACHAT_AUTHORIZATION_KEY or GIGACHAT_CLIENT_ID and GIGACHAT_CLIENT_SECRET")
)

type Config struct {
	TelegramBotToken               string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAuthorizedUserIDs      []int64 `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`
	TelegramUpdateListenerPoolSize int     `env:"TELEGRAM_UPDATE_LISTENER_POOL_SIZE" envDefault:"10"`

	GigaChatAuthorizationKey   string        `env:"GIGACHAT_AUTHORIZATION_KEY"`
	GigaChatClientID           string        `env:"GIGACHAT_CLIENT_ID"`
	GigaChatClientSecret       string        `env:"GIGACHAT_CLIENT_SECRET"`
	GigaChatAuthURL            string        `env:"GIGACHAT_AUTH_URL" envDefault:"https://ngw.devices.sberbank.ru:9443/api/v2/oauth"`
	GigaChatAPIURL             string        `env:"GIGACHAT_API_URL" envDefault:"https://gigachat.devices.sberbank.ru/api/v1"`
	GigaChatScope              string        `env:"GIGACHAT_SCOPE" envDefault:"GIGACHAT_API_PERS"`
	GigaChatModel              string        `env:"GIGACHAT_MODEL" envDefault:"GigaChat"`
	GigaChatInsecureSkipVerify bool          `env:"GIGACHAT_INSECURE_SKIP_VERIFY" envDefault:"true"`
	GigaChatCACertFile         string        `env:"GIGACHAT_CA_CERT_FILE"`
	GigaChatTimeout            time.Duration `env:"GIGACHAT_TIMEOUT" envDefault:"60s"`

	ProxyAPIKey        string        `env:"PROXY_API"`
	ProxyAPIURL        string        `env:"PROXY_API_URL" envDefault:"https://api.proxyapi.ru/openai/v1"`
	ProxyAPIImageModel string        `env:"PROXY_API_IMAGE_MODEL" envDefault:"gpt-image-1"`
	ProxyAPITimeout    time.Duration `env:"PROXY_API_TIMEOUT" envDefault:"120s"`

	MaxHistoryMessages int `env:"MAX_HISTORY_MESSAGES" envDefault:"10"`

	// The HTTP API is off unless an address is given.
	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR"`
	HTTPAPIToken   string `env:"HTTP_API_TOKEN"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogNoColor bool   `env:"LOG_NO_COLOR"`
}

// httpEnabled reports whether the HTTP API should be served. "off" counts as unset.
func (c Config) httpEnabled() bool {
	addr := strings.TrimSpace(c.HTTPListenAddr)
	return addr != "" && !strings.EqualFold(addr, "off")
}

func (c Config) validate() (gigachat.Credentials, error) {
	token := strings.TrimSpace(c.TelegramBotToken)
	if token == "" || token == telegramBotTokenPlaceholder {
		return gigachat.Credentials{}, errBotTokenMissing
	}

	creds, err := gigachat.ResolveCredentials(c.GigaChatAuthorizationKey, c.GigaChatClientID, c.GigaChatClientSecret)
	if err != nil {
		return gigachat.Credentials{}, fmt.Errorf("%w: %v", errCredentialsMissing, err)
	}

	return creds, nil
}

func parseConfig(opts env.Options) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

// loadEnvFile fills the environment from a dotenv file. Variables that are
// already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		slog.Info("loaded env file", "path", path)
		return nil
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("env file not found, using process environment", "path", path)
		return nil
	default:
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
}

func setupLogger(cfg Config) {
	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	opts.NoColor = cfg.LogNoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "gigachat-telegram-bot",
		Short:         "Telegram bot answering questions with GigaChat",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMain(cmd.Context(), envFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to the dotenv file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration without starting the bot",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCheck(envFile)
		},
	})

	return rootCmd
}

func loadConfig(envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	cfg, err := parseConfig(env.Options{})
	if err != nil {
		return Config{}, err
	}

	setupLogger(cfg)
	return cfg, nil
}

func runCheck(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	creds, err := cfg.validate()
	if err != nil {
		return err
	}

	slog.Info("telegram bot token is set")
	slog.Info("gigachat credentials resolved", "source", creds.Source)
	if proxyapi.NewImageClient(cfg.ProxyAPIKey, cfg.ProxyAPIURL, cfg.ProxyAPIImageModel, nil).Enabled() {
		slog.Info("image generation via ProxyAPI is enabled")
	} else {
		slog.Warn("PROXY_API is not set, image generation is disabled")
	}
	slog.Info("http api", "enabled", cfg.httpEnabled(), "addr", cfg.HTTPListenAddr, "tokenSet", cfg.HTTPAPIToken != "")

	return nil
}

func runMain(parent context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancelFn := context.WithCancel(parent)
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	slog.Info("bot started")

	if err := workerGroup.Start(ctx); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}

func setupWorkers(cfg Config) (workers.Group, error) {
	creds, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	slog.Info("gigachat credentials resolved", "source", creds.Source)

	if cfg.GigaChatInsecureSkipVerify && cfg.GigaChatCACertFile == "" {
		slog.Warn("TLS certificate verification is disabled for GigaChat requests")
	}

	gigaChatHTTP, err := gigachat.NewHTTPClient(gigachat.TransportConfig{
		InsecureSkipVerify: cfg.GigaChatInsecureSkipVerify,
		CACertFile:         cfg.GigaChatCACertFile,
		Timeout:            cfg.GigaChatTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gigachat http client: %w", err)
	}

	tokens := gigachat.NewTokenCache(creds, cfg.GigaChatAuthURL, cfg.GigaChatScope, gigaChatHTTP)
	gigaChatClient := gigachat.NewClient(tokens, cfg.GigaChatAPIURL, cfg.GigaChatModel, gigaChatHTTP)

	imageClient := proxyapi.NewImageClient(
		cfg.ProxyAPIKey,
		cfg.ProxyAPIURL,
		cfg.ProxyAPIImageModel,
		&http.Client{Timeout: cfg.ProxyAPITimeout},
	)
	if imageClient.Enabled() {
		slog.Info("image generation via ProxyAPI is enabled", "model", cfg.ProxyAPIImageModel)
	} else {
		slog.Warn("PROXY_API is not set, image generation is disabled")
	}

	telegramClient, err := telegram.NewClient(strings.TrimSpace(cfg.TelegramBotToken))
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	authenticator := auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs)

	conversationRepository := repository.NewConversationRepository(cfg.MaxHistoryMessages)

	chatService := services.NewChatService(
		conversationRepository,
		telegramClient,
		conversationRepository.MaxMessages(),
	)

	textService := services.NewTextService(
		gigaChatClient,
		gigaChatClient,
		imageClient,
		conversationRepository,
		telegramClient,
	)

	handler := telegram.NewHandler(textService, chatService)

	workerGroup := workers.Group{
		workers.NewTelegramUpdateListener(
			telegramClient,
			authenticator,
			handler,
			cfg.TelegramUpdateListenerPoolSize,
		),
	}

	if cfg.httpEnabled() {
		if cfg.HTTPAPIToken == "" {
			slog.Warn("HTTP API is served without HTTP_API_TOKEN, completion endpoint is unauthenticated", "addr", cfg.HTTPListenAddr)
		}
		gin.SetMode(gin.ReleaseMode)
		router := api.NewRouter(gigaChatClient, cfg.HTTPAPIToken)
		workerGroup = append(workerGroup, workers.NewHTTPServer(cfg.HTTPListenAddr, router))
	}

	return workerGroup, nil
}
