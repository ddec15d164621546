package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coin-dash/cache"
	"coin-dash/coingecko"
	"coin-dash/config"
	"coin-dash/driver"
	cdhttp "coin-dash/http"
	"coin-dash/market"
	"coin-dash/writer"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Parse()

	httpClient := cdhttp.New(cfg)
	gecko := coingecko.NewClient(httpClient)
	source := market.NewSource(gecko, cache.New())
	dash := writer.New(nil)

	// The dashboard owns the terminal, push log lines above the live area
	logrus.SetOutput(dash.Bypass())
	defer logrus.SetOutput(colorable.NewColorableStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Infof("Tracking %v in %s, refreshing every %d seconds", cfg.Coins, cfg.Currency, cfg.Refresh)

	loop := &driver.Loop{
		Interval: func() time.Duration {
			return time.Duration(config.Snapshot().Refresh) * time.Second
		},
		OnCountdown: dash.RenderCountdown,
	}
	err := loop.Run(ctx, func(ctx context.Context) {
		runCycle(ctx, source, dash)
	})
	if err != nil && ctx.Err() == nil {
		logrus.Fatal(err)
	}
}

// runCycle is one pass of the pipeline. Quote failure aborts the cycle, ping
// failure only dims the status line, a missing history degrades one panel.
func runCycle(ctx context.Context, source *market.Source, dash *writer.Dashboard) {
	cfg := config.Snapshot() // re-read at the start of every cycle

	latency, ok := source.Ping(ctx)

	quotes, missing, err := source.Quotes(ctx, cfg.Currency, cfg.Coins)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		dash.RenderError(err)
		return
	}
	if len(quotes) == 0 {
		dash.RenderEmpty(cfg.Coins)
		return
	}

	frame := &writer.Frame{
		Currency:    cfg.Currency,
		PingLatency: latency,
		PingOK:      ok,
		Quotes:      quotes,
		MissingIDs:  missing,
		ChartDays:   cfg.ChartDays,
	}
	if cfg.Chart {
		// One panel per requested id, in input order; ids without data get a
		// warning panel instead of dropping silently
		for _, id := range cfg.Coins {
			frame.Charts = append(frame.Charts, writer.ChartPanel{
				ID:     id,
				Points: source.History(ctx, id, cfg.Currency, cfg.ChartDays),
			})
		}
	}
	dash.Render(frame)
}
