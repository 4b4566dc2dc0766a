package main

import (
	"fmt"
	"net/http"

	"github.com/ViBiOh/httputils/v4/pkg/httputils"
	"github.com/ViBiOh/httputils/v4/pkg/recoverer"
	"github.com/ViBiOh/httputils/v4/pkg/server"
	"github.com/ViBiOh/majordome/pkg/approval"
	"github.com/ViBiOh/majordome/pkg/discord"
	"github.com/ViBiOh/majordome/pkg/majordome"
	"github.com/ViBiOh/majordome/pkg/provision"
)

type services struct {
	server    *server.Server
	discord   discord.Service
	approval  *approval.Service
	provision provision.Service
	majordome majordome.Service
}

func newServices(config configuration, clients clients) (services, error) {
	var output services
	var err error

	output.server = server.New(config.appServer)

	output.discord, err = discord.New(config.discord, "", clients.telemetry.TracerProvider())
	if err != nil {
		return output, fmt.Errorf("discord: %w", err)
	}

	output.provision, err = provision.New(config.provision, output.discord)
	if err != nil {
		return output, fmt.Errorf("provision: %w", err)
	}

	output.approval, err = approval.New(config.approval, output.discord, majordome.NewCustomIDStore(output.discord, clients.redis))
	if err != nil {
		return output, fmt.Errorf("approval: %w", err)
	}

	output.majordome = majordome.New(output.provision, output.approval)
	output.discord = output.discord.HandleWith(output.majordome.HandleInteraction)

	return output, nil
}

func (s services) httpHandler(clients clients) http.Handler {
	return httputils.Handler(s.discord.Handler(), clients.health, recoverer.Middleware, clients.telemetry.Middleware("http"))
}
