package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"standup/command"
	"standup/db"
	"standup/discord"
	"standup/handler"
	standuphandler "standup/handler/standup"
	"standup/model"
	"standup/scheduler"
	"standup/standup"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Start runs the bot until SIGINT or SIGTERM.
func Start(cfg model.Config, logger *zap.Logger) error {
	var (
		archive standup.ReportStore
		lister  standuphandler.ReportLister
	)
	if cfg.Database.Path != "" {
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		archive, lister = store, store
		logger.Info("Report archive opened", zap.String("path", cfg.Database.Path))
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	svc := standup.NewService(discord.NewMessenger(dg), standup.Options{
		Questions:        cfg.Standup.Questions,
		Participants:     cfg.Standup.Participants,
		TeamChannel:      cfg.Standup.TeamChannel,
		SendTimeout:      cfg.Standup.SendTimeout,
		MaxParallelSends: cfg.Standup.MaxParallelSends,
		Reports:          archive,
		Logger:           logger,
	})

	h := standuphandler.New(svc, lister, cfg.Commands.Auth, logger)
	router := handler.NewRouter(logger)
	h.RegisterHandlers(router)
	registerEventHandlers(dg, router, h)

	sched, err := scheduler.New(cfg.Standup.Schedule, cfg.Standup.Timezone, func(ctx context.Context) {
		runCycle(ctx, svc, logger)
	}, logger)
	if err != nil {
		return err
	}

	if err := dg.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, guildID := range cfg.Commands.AllowGuilds {
		for _, cmd := range command.AllCommands {
			if _, err := dg.ApplicationCommandCreate(dg.State.User.ID, guildID, cmd); err != nil {
				dg.Close()
				return fmt.Errorf("cannot create '%v' command in guild %s: %w", cmd.Name, guildID, err)
			}
		}
	}

	sched.Start()

	logger.Info("Bot is now running. Press CTRL-C to exit.",
		zap.Int("participants", len(cfg.Standup.Participants)),
		zap.Int("questions", len(cfg.Standup.Questions)))
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	sched.Stop(ctx)
	// Stop taking events before draining; handlers still running after this
	// get a closed outbox instead of racing the drain.
	if err := dg.Close(); err != nil {
		logger.Warn("Error closing Discord session", zap.Error(err))
	}
	svc.Close()
	return nil
}

func runCycle(ctx context.Context, svc *standup.Service, logger *zap.Logger) {
	_, err := svc.StartCycle(ctx)
	switch {
	case err == nil, errors.Is(err, standup.ErrNoQuestions):
	case errors.Is(err, standup.ErrCycleInProgress):
		logger.Warn("Skipping scheduled standup", zap.Error(err))
	default:
		logger.Error("Scheduled standup did not finish starting", zap.Error(err))
	}
}
