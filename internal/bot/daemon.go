package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zulandar/kcalbot/internal/config"
	"github.com/zulandar/kcalbot/internal/dialogue"
	"github.com/zulandar/kcalbot/internal/store"
)

// Daemon is the main bot process. It connects to a chat platform via an
// Adapter, pumps inbound messages through the Router, and runs the digest
// scheduler.
type Daemon struct {
	store   *store.Store
	cfg     *config.Config
	adapter Adapter
	out     io.Writer
}

// DaemonOpts holds parameters for creating a new Daemon.
type DaemonOpts struct {
	Store   *store.Store
	Config  *config.Config
	Adapter Adapter
	Out     io.Writer // defaults to os.Stdout
}

// NewDaemon creates a Daemon with the given options.
func NewDaemon(opts DaemonOpts) (*Daemon, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("bot: store is required")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("bot: config is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("bot: adapter is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Daemon{
		store:   opts.Store,
		cfg:     opts.Config,
		adapter: opts.Adapter,
		out:     out,
	}, nil
}

// Run starts the bot. It connects the adapter, builds the router, and
// blocks until the context is cancelled. On shutdown it closes the adapter
// gracefully. Each inbound message is handled to completion before the
// next is considered.
func (d *Daemon) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "kcalbot connecting...\n")
	if err := d.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("bot: connect: %w", err)
	}

	// Extract bot user ID if the adapter supports it.
	var botUserID string
	if bui, ok := d.adapter.(BotUserIDer); ok {
		botUserID = bui.BotUserID()
	}

	sessions := dialogue.NewSessionStore(d.cfg.SessionTTL())

	router, err := NewRouter(RouterOpts{
		Store:     d.store,
		Sessions:  sessions,
		Adapter:   d.adapter,
		BotUserID: botUserID,
		Out:       d.out,
	})
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("bot: build router: %w", err)
	}

	inbound, err := d.adapter.Listen(ctx)
	if err != nil {
		d.adapter.Close()
		return fmt.Errorf("bot: listen: %w", err)
	}

	if d.cfg.Digest.Enabled {
		go d.runDigestScheduler(ctx)
	}

	fmt.Fprintf(d.out, "kcalbot online\n")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(d.out, "kcalbot shutting down...\n")
			if err := d.adapter.Close(); err != nil {
				log.Printf("bot: close adapter: %v", err)
			}
			fmt.Fprintf(d.out, "kcalbot stopped\n")
			return nil

		case msg, ok := <-inbound:
			if !ok {
				fmt.Fprintf(d.out, "kcalbot inbound channel closed\n")
				return nil
			}
			router.Handle(ctx, msg)
		}
	}
}

// runDigestScheduler fires the daily digest on the configured cron
// schedule until the context is cancelled.
func (d *Daemon) runDigestScheduler(ctx context.Context) {
	expr := d.cfg.Digest.Cron
	wait := nextCronDuration(expr)
	if wait <= 0 {
		log.Printf("bot: digest: invalid cron expression %q, scheduler disabled", expr)
		return
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			d.fireDigest(ctx)
			if wait = nextCronDuration(expr); wait > 0 {
				timer.Reset(wait)
			} else {
				return
			}
		}
	}
}

// fireDigest builds and posts yesterday's summary to the default channel.
// Suppressed when no user recorded anything.
func (d *Daemon) fireDigest(ctx context.Context) {
	text, err := BuildDailyDigest(d.store, time.Now())
	if err != nil {
		log.Printf("bot: digest: %v", err)
		return
	}
	if text == "" {
		return
	}
	if err := d.adapter.Send(ctx, OutboundMessage{
		ChannelID: d.digestChannel(),
		Text:      text,
	}); err != nil {
		log.Printf("bot: send digest: %v", err)
	}
}

// digestChannel returns the configured default channel for digest posts.
func (d *Daemon) digestChannel() string {
	switch d.cfg.Platform {
	case "discord":
		return d.cfg.Discord.ChannelID
	case "slack":
		return d.cfg.Slack.ChannelID
	}
	return ""
}
