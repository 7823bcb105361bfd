package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/memory/v2"
	fredis "github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/signup-form/internal/config"
	"github.com/khanghh/signup-form/internal/form"
	"github.com/khanghh/signup-form/internal/handlers"
	"github.com/khanghh/signup-form/internal/middlewares"
	"github.com/khanghh/signup-form/internal/middlewares/csrf"
	"github.com/khanghh/signup-form/internal/middlewares/sessions"
	"github.com/khanghh/signup-form/internal/prompt"
	"github.com/khanghh/signup-form/internal/render"
	"github.com/khanghh/signup-form/internal/signup"
	"github.com/khanghh/signup-form/internal/store"
	"github.com/khanghh/signup-form/internal/users"
	"github.com/khanghh/signup-form/params"
	"github.com/urfave/cli/v2"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "Sign-up form service"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve the sign-up form over HTTP",
			Action: serve,
		},
		{
			Name:   "prompt",
			Usage:  "Fill the sign-up form in the terminal",
			Action: runPrompt,
		},
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = serve
}

func setup(ctx *cli.Context) (*config.Config, error) {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return nil, err
	}
	initLogger(config.Debug || ctx.IsSet(debugFlag.Name))
	return config, nil
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func newEngine(config *config.Config) *form.Engine {
	if config.Form.RetainOnPass {
		return form.NewEngine(form.WithRetainOnPass())
	}
	return form.NewEngine()
}

// initStorages picks the backend shared by sessions and form records.
func initStorages(config *config.Config) (fiber.Storage, store.Store[signup.Record], func()) {
	if config.RedisURL != "" {
		redisStorage := fredis.New(fredis.Config{URL: config.RedisURL})
		sessionStorage := store.NewPrefixedStorage(redisStorage, params.SessionKeyPrefix)
		records := store.NewRedisStore[signup.Record](redisStorage.Conn(), params.FormStateKeyPrefix)
		return sessionStorage, records, func() { redisStorage.Close() }
	}
	sessionStorage := memory.New()
	records := store.NewMemoryStore[signup.Record]()
	return sessionStorage, records, func() {
		sessionStorage.Close()
		records.Close()
	}
}

func serve(ctx *cli.Context) error {
	config, err := setup(ctx)
	if err != nil {
		return err
	}

	sessionStorage, records, closeStorages := initStorages(config)
	defer closeStorages()

	signupService := signup.NewService(records, users.NewUserService(config.Form.PasswordHashing), signup.Config{
		StateTTL:    config.Form.StateTTL,
		SubmitDelay: config.Form.SubmitDelay,
		StaleAfter:  config.Form.SubmitDelay + params.SubmissionGrace,
		Engine:      newEngine(config),
	})
	sessionStore := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     config.Session.SessionMaxAge,
		KeyLookup:      "cookie:" + config.Session.CookieName,
		CookieHTTPOnly: config.Session.CookieHttpOnly,
		CookieSecure:   config.Session.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	render.InitValues(fiber.Map{"siteName": config.AppName})
	router := fiber.New(fiber.Config{
		AppName:      config.AppName,
		Views:        render.NewHtmlEngine(config.TemplateDir),
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    params.ServerBodyLimit,
		IdleTimeout:  params.ServerIdleTimeout,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
	})
	if config.StaticDir != "" {
		router.Static("/static", config.StaticDir)
	}
	router.Use(recover.New())
	router.Use(sessions.SessionMiddleware(sessionStore))
	router.Use(csrf.New())
	handlers.NewSignupHandler(signupService).Register(router)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("Could not shut down server", "error", err)
		}
	}()

	slog.Info("Starting sign-up server", "address", config.ListenAddr, "redis", config.RedisURL != "")
	return router.Listen(config.ListenAddr)
}

func runPrompt(ctx *cli.Context) error {
	config, err := setup(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	userService := users.NewUserService(config.Form.PasswordHashing)
	runner := prompt.New(
		prompt.NewSurveyDriver(os.Stdout),
		prompt.WithStoreOptions(
			form.WithEngine(newEngine(config)),
			form.WithSubmitDelay(config.Form.SubmitDelay),
		),
		prompt.WithOnComplete(func(ctx context.Context, state form.State) error {
			_, err := userService.CreateUser(ctx, users.CreateUserOptions{
				Username: state.Values[form.FieldUsername],
				Password: state.Values[form.FieldPassword],
			})
			return err
		}),
	)
	_, err = runner.Run(sigCtx)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	return err
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
