package main

import (
	"fmt"
	"os"

	"standup/bot"
	"standup/config"
	"standup/utils"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(config.Cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := bot.Start(config.Cfg, logger); err != nil {
		logger.Error("Bot stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
