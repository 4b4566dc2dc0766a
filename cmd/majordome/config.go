package main

import (
	"flag"
	"os"

	"github.com/ViBiOh/flags"
	"github.com/ViBiOh/httputils/v4/pkg/alcotest"
	"github.com/ViBiOh/httputils/v4/pkg/health"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/httputils/v4/pkg/redis"
	"github.com/ViBiOh/httputils/v4/pkg/server"
	"github.com/ViBiOh/httputils/v4/pkg/telemetry"
	"github.com/ViBiOh/majordome/pkg/approval"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/provision"
)

type configuration struct {
	logger    *logger.Config
	alcotest  *alcotest.Config
	telemetry *telemetry.Config
	health    *health.Config
	redis     *redis.Config

	appServer *server.Config

	discord   discord.Config
	provision provision.Config
	approval  approval.Config
}

func newConfig() configuration {
	fs := flag.NewFlagSet("majordome", flag.ExitOnError)
	fs.Usage = flags.Usage(fs)

	config := configuration{
		logger:    logger.Flags(fs, "logger"),
		alcotest:  alcotest.Flags(fs, ""),
		telemetry: telemetry.Flags(fs, "telemetry"),
		health:    health.Flags(fs, ""),
		redis:     redis.Flags(fs, "redis"),

		appServer: server.Flags(fs, ""),

		discord:   discord.Flags(fs, ""),
		provision: provision.Flags(fs, ""),
		approval:  approval.Flags(fs, "approval"),
	}

	_ = fs.Parse(os.Args[1:])

	return config
}
