package bot

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/kcalbot/internal/config"
	"github.com/zulandar/kcalbot/internal/store"
)

func testConfig() *config.Config {
	cfg, err := config.Parse([]byte(""))
	if err != nil {
		panic(err)
	}
	return cfg
}

func newTestDaemon(t *testing.T, st *store.Store, adapter Adapter) (*Daemon, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	d, err := NewDaemon(DaemonOpts{
		Store:   st,
		Config:  testConfig(),
		Adapter: adapter,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	return d, &out
}

func TestNewDaemon_RequiredOpts(t *testing.T) {
	st := openTestStore(t)
	cfg := testConfig()
	adapter := NewMockAdapter()

	if _, err := NewDaemon(DaemonOpts{Config: cfg, Adapter: adapter}); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewDaemon(DaemonOpts{Store: st, Adapter: adapter}); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewDaemon(DaemonOpts{Store: st, Config: cfg}); err == nil {
		t.Error("expected error for nil adapter")
	}
}

func TestDaemonRun_HandlesMessageAndShutsDown(t *testing.T) {
	st := openTestStore(t)
	adapter := NewMockAdapter()
	adapter.SetBotUserID("bot-1")
	d, out := newTestDaemon(t, st, adapter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	adapter.SimulateInbound(InboundMessage{
		ChannelID: "ch-1",
		UserID:    "u1",
		Text:      "/start",
	})

	// Wait for the router to reply.
	deadline := time.After(2 * time.Second)
	for adapter.SentCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("no reply before deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	msg, _ := adapter.LastSent()
	if !strings.Contains(msg.Text, "Calorie bot is ready.") {
		t.Errorf("reply = %q", msg.Text)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}

	logs := out.String()
	for _, want := range []string{"kcalbot connecting...", "kcalbot online", "kcalbot stopped"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log output missing %q:\n%s", want, logs)
		}
	}
}

func TestDaemonRun_StopsWhenInboundCloses(t *testing.T) {
	st := openTestStore(t)
	adapter := NewMockAdapter()
	d, _ := newTestDaemon(t, st, adapter)

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	// Give Run a moment to reach the select loop, then close the adapter.
	time.Sleep(20 * time.Millisecond)
	adapter.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after inbound channel closed")
	}
}

func TestDigestChannel(t *testing.T) {
	st := openTestStore(t)
	adapter := NewMockAdapter()
	d, _ := newTestDaemon(t, st, adapter)

	d.cfg.Platform = "discord"
	d.cfg.Discord.ChannelID = "disc-ch"
	if got := d.digestChannel(); got != "disc-ch" {
		t.Errorf("discord digest channel = %q", got)
	}

	d.cfg.Platform = "slack"
	d.cfg.Slack.ChannelID = "slack-ch"
	if got := d.digestChannel(); got != "slack-ch" {
		t.Errorf("slack digest channel = %q", got)
	}

	d.cfg.Platform = ""
	if got := d.digestChannel(); got != "" {
		t.Errorf("unset platform digest channel = %q", got)
	}
}
