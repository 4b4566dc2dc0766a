package main

import (
	"context"

	"github.com/ViBiOh/httputils/v4/pkg/alcotest"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
	"github.com/ViBiOh/httputils/v4/pkg/server"
)

func main() {
	config := newConfig()
	alcotest.DoAndExit(config.alcotest)

	ctx := context.Background()

	clients, err := newClients(ctx, config)
	logger.FatalfOnErr(ctx, err, "clients")

	defer clients.Close(ctx)

	services, err := newServices(config, clients)
	logger.FatalfOnErr(ctx, err, "services")

	go services.server.Start(clients.health.EndCtx(), services.httpHandler(clients))

	clients.health.WaitForTermination(services.server.Done())

	server.GracefulWait(services.server.Done())
}
