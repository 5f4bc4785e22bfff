package main

import (
	"log"

	"github.com/eventease/eventbot/bot"
	corecmd "github.com/eventease/eventbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(cfg.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("eventbot: %v", err)
	}
}
