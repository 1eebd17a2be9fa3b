package main

import (
	"log"

	corecmd "github.com/stickpick/stickpick/core/cmd"
	"github.com/stickpick/stickpick/internal/bot"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(carrier.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
