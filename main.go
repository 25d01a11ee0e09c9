package main

import (
	"context"
	"frontdesk/app/client/llm"
	"frontdesk/app/client/search"
	"frontdesk/app/client/tickets"
	"frontdesk/app/config"
	"frontdesk/app/server"
	"frontdesk/app/service/action"
	"frontdesk/app/service/pipeline"
	"frontdesk/app/service/query"
	"frontdesk/app/service/router"
	"frontdesk/app/service/session"
	"frontdesk/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.NewClient)
	do.Provide(di, search.NewIndex)
	do.Provide(di, tickets.NewDesk)
	do.Provide(di, session.New)
	do.Provide(di, query.New)
	do.Provide(di, router.New)
	do.Provide(di, action.New)
	do.Provide(di, pipeline.New)
	do.Provide(di, server.New)

	if err = do.MustInvoke[*search.Index](di).IndexDirectory(appCtx, cfg.Knowledge.Dir); err != nil {
		log.Fatalf("knowledge indexing failed: %v", err)
	}

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*session.Store](di).RunSweepLoop(appCtx)

	if err = do.MustInvoke[*server.Server](di).Serve(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
