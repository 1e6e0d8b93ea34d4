package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/config"
	applog "issuehub/internal/pkg/logger"
	"issuehub/internal/repository"
	"issuehub/internal/service"
	"issuehub/internal/service/deadline"
	"issuehub/internal/service/notification"
	"issuehub/internal/service/preference"
)

type commandLineOptionValues struct {
	EnvFile  string
	Once     bool
	Schedule string
	NoGuard  bool
}

func parseCommandLine() *commandLineOptionValues {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.EnvFile, "env-file", ".env",
		opt.Description("the path to an optional .env file"))
	opt.BoolVar(&optionValues.Once, "once", false,
		opt.Description("run the deadline scan once and exit"))
	opt.StringVar(&optionValues.Schedule, "schedule", "",
		opt.Alias("s"),
		opt.Description("cron expression overriding DEADLINE_SCAN_SCHEDULE"))
	opt.BoolVar(&optionValues.NoGuard, "no-guard", false,
		opt.Description("skip the once-per-day redis guard"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues
}

func main() {
	optionValues := parseCommandLine()
	envErr := godotenv.Load(optionValues.EnvFile)

	cfg := config.Load()
	entry := applog.Init("issuehub-scheduler", cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		entry.WithField("path", optionValues.EnvFile).Info("No .env file loaded, using environment variables")
	}

	schedule := cfg.DeadlineScanSchedule
	if optionValues.Schedule != "" {
		schedule = optionValues.Schedule
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		entry.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		entry.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	mail, err := service.NewMailSender(cfg)
	if err != nil {
		entry.Fatalf("Failed to initialize mail sender: %v", err)
	}

	repos := repository.NewRepositories(db)
	dispatcher := notification.NewDispatcher(
		repos.Notification,
		repos.User,
		preference.NewService(repos.Preference),
		service.NewChatSender(cfg),
		mail,
		redis,
	)

	var guard deadline.Guard
	if !optionValues.NoGuard {
		guard = deadline.NewRunGuard(redis)
	}
	job := deadline.NewJob(deadline.NewScanner(repos.Item, dispatcher), guard)

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		ran, err := job.Run(ctx)
		if err != nil {
			entry.WithField("error", err).Error("deadline scan failed")
			return
		}
		entry.WithField("ran", ran).Info("deadline trigger handled")
	}

	if optionValues.Once {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, run); err != nil {
		entry.Fatalf("Invalid schedule %q: %v", schedule, err)
	}
	c.Start()
	entry.WithFields(log.Fields{"schedule": schedule}).Info("deadline scheduler started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	<-c.Stop().Done()
	entry.Info("deadline scheduler stopped")
}
