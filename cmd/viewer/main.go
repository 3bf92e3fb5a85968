package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/viewer"
	"github.com/okian/estimathon/internal/viewer/dashboard"
	"github.com/okian/estimathon/internal/viewer/scoreboard"
	"github.com/okian/estimathon/pkg/logger"
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the gateway")
		view    = flag.String("view", "scoreboard", "View to render: dashboard | scoreboard")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var handler viewer.Handler
	switch *view {
	case "dashboard":
		v := dashboard.New(viewer.NewClient(*baseURL))
		if err := v.RefreshTeams(ctx); err != nil {
			os.Stderr.WriteString("team directory unavailable: " + err.Error() + "\n")
		}
		handler = func(snap model.Snapshot) {
			v.Apply(snap)
			os.Stdout.WriteString("\033[2J\033[H" + v.Render())
		}
	case "scoreboard":
		v := scoreboard.New()
		handler = func(snap model.Snapshot) {
			v.Apply(snap)
			os.Stdout.WriteString("\033[2J\033[H" + v.Render())
		}
	default:
		os.Stderr.WriteString("unknown view: " + *view + "\n")
		return
	}

	wsURL := "ws" + (*baseURL)[len("http"):] + "/ws/scoreboard"
	feed := viewer.NewFeed(wsURL, handler)
	if err := feed.Run(ctx); err != nil {
		os.Stderr.WriteString("feed stopped: " + err.Error() + "\n")
	}
}
