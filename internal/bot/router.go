package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/zulandar/kcalbot/internal/dialogue"
	"github.com/zulandar/kcalbot/internal/models"
	"github.com/zulandar/kcalbot/internal/store"
)

// Router classifies inbound chat messages and routes them to the
// appropriate handler: an active dialogue session, a shortcut action
// against the entry store, or the fallback reply.
type Router struct {
	store     *store.Store
	sessions  *dialogue.SessionStore
	adapter   Adapter
	botUserID string // the bot's own user ID (to filter self-messages)
	out       io.Writer
	now       func() time.Time
}

// RouterOpts holds parameters for creating a Router.
type RouterOpts struct {
	Store     *store.Store
	Sessions  *dialogue.SessionStore
	Adapter   Adapter
	BotUserID string           // bot's user ID for self-message filtering
	Out       io.Writer        // defaults to os.Stdout
	Now       func() time.Time // defaults to time.Now
}

// NewRouter creates a Router.
func NewRouter(opts RouterOpts) (*Router, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("bot: router: store is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("bot: router: session store is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("bot: router: adapter is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		store:     opts.Store,
		sessions:  opts.Sessions,
		adapter:   opts.Adapter,
		botUserID: opts.BotUserID,
		out:       out,
		now:       now,
	}, nil
}

// Handle classifies and routes a single inbound message. Dispatch order,
// first match wins:
//  1. Cancel label → global cancel, regardless of session state.
//  2. Active dialogue session → forward to the session's current step.
//  3. Shortcut label → read/write against the entry store and reply.
//  4. Everything else → "use the buttons" fallback.
//
// A panic while handling is recovered: it is logged and the sender gets a
// generic failure notice, so one bad message cannot kill the dispatch loop.
func (r *Router) Handle(ctx context.Context, msg InboundMessage) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("bot: router: panic handling message from %s: %v", msg.UserID, p)
			r.reply(ctx, msg, "Something went wrong. Please try again.", MainKeyboard())
		}
	}()

	if r.isSelfMessage(msg) {
		return
	}

	text := strings.TrimSpace(msg.Text)
	fmt.Fprintf(r.out, "bot: router: recv [ch=%s user=%s] %q\n",
		msg.ChannelID, msg.UserName, truncate(text, 80))

	// 1. Cancel pre-empts any active session.
	if text == BtnCancel || text == "/cancel" {
		r.sessions.Delete(msg.UserID)
		r.reply(ctx, msg, "Canceled.", MainKeyboard())
		return
	}

	// 2. Active session for this user.
	if sess, ok := r.sessions.Get(msg.UserID); ok {
		r.advanceSession(ctx, msg, sess, text)
		return
	}

	// 3. Shortcut labels and commands.
	switch text {
	case "/start":
		r.reply(ctx, msg, "Calorie bot is ready.\nChoose Add (grams) or Add (kcal).", MainKeyboard())
	case "/help", "Help":
		r.reply(ctx, msg, helpText(), MainKeyboard())
	case BtnAddGrams, "/add_grams":
		r.startFlow(ctx, msg, dialogue.FlowWeight)
	case BtnAddKcal, "/add_kcal":
		r.startFlow(ctx, msg, dialogue.FlowDirect)
	case BtnPickDate, "/date":
		r.startFlow(ctx, msg, dialogue.FlowDate)
	case BtnList, "/list":
		r.replyList(ctx, msg)
	case BtnTotal, "/total":
		r.replyTotal(ctx, msg)
	case BtnYesterday:
		r.replyYesterday(ctx, msg)
	case BtnWeek:
		r.replyWeek(ctx, msg)
	case BtnReset, "/reset":
		r.replyReset(ctx, msg)
	default:
		// 4. Fallback.
		r.reply(ctx, msg, "Use the buttons or /help.", MainKeyboard())
	}
}

// startFlow begins a fresh dialogue, silently abandoning any in-progress
// session for the user.
func (r *Router) startFlow(ctx context.Context, msg InboundMessage, kind dialogue.FlowKind) {
	sess, prompt := dialogue.Start(kind)
	r.sessions.Put(msg.UserID, sess)
	r.reply(ctx, msg, prompt, nil)
}

// advanceSession feeds one message to the user's active flow and commits
// on completion.
func (r *Router) advanceSession(ctx context.Context, msg InboundMessage, sess *dialogue.Session, text string) {
	outcome, prompt := dialogue.Advance(sess, text, IsReservedLabel)
	switch outcome {
	case dialogue.OutcomeReprompt, dialogue.OutcomePrompt:
		r.sessions.Put(msg.UserID, sess)
		r.reply(ctx, msg, prompt, nil)
	case dialogue.OutcomeDone:
		r.commit(ctx, msg, sess)
	}
}

// commit performs the single entry-store operation a completed flow maps
// to, then destroys the session and sends the confirmation. On a store
// failure the session is kept (rewound to its final field) so the user is
// not forced to re-enter prior fields.
func (r *Router) commit(ctx context.Context, msg InboundMessage, sess *dialogue.Session) {
	today := store.DayString(r.now())

	var reply string
	var err error
	switch sess.Kind {
	case dialogue.FlowWeight:
		var kcal, total float64
		kcal, err = r.store.RecordWeightEntry(msg.UserID, today, sess.Name, sess.Grams, sess.KcalPer100)
		if err == nil {
			total, err = r.store.TotalFor(msg.UserID, today)
		}
		if err == nil {
			reply = formatWeightAdded(sess.Name, sess.Grams, sess.KcalPer100, kcal, total)
		}
	case dialogue.FlowDirect:
		var total float64
		_, err = r.store.RecordDirectEntry(msg.UserID, today, sess.Name, sess.Kcal)
		if err == nil {
			total, err = r.store.TotalFor(msg.UserID, today)
		}
		if err == nil {
			reply = formatDirectAdded(sess.Name, sess.Kcal, total)
		}
	case dialogue.FlowDate:
		var entries []models.Entry
		entries, err = r.store.ListFor(msg.UserID, sess.Day)
		if err == nil {
			reply = formatDayReport(sess.Day, entries)
		}
	}

	if err != nil {
		log.Printf("bot: router: commit for %s: %v", msg.UserID, err)
		// The dialogue layer enforces the same ranges the store checks,
		// so ErrValidation here means the session data itself is bad.
		if errors.Is(err, store.ErrValidation) {
			r.sessions.Delete(msg.UserID)
			r.reply(ctx, msg, "That entry was not valid. Please start again.", MainKeyboard())
			return
		}
		prompt := dialogue.Retry(sess)
		r.sessions.Put(msg.UserID, sess)
		r.reply(ctx, msg, "Could not save right now. "+prompt, nil)
		return
	}

	r.sessions.Delete(msg.UserID)
	r.reply(ctx, msg, reply, MainKeyboard())
}

// replyList sends today's entry list.
func (r *Router) replyList(ctx context.Context, msg InboundMessage) {
	today := store.DayString(r.now())
	entries, err := r.store.ListFor(msg.UserID, today)
	if err != nil {
		r.replyStoreError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, formatDayList(today, entries), MainKeyboard())
}

// replyTotal sends today's total.
func (r *Router) replyTotal(ctx context.Context, msg InboundMessage) {
	today := store.DayString(r.now())
	total, err := r.store.TotalFor(msg.UserID, today)
	if err != nil {
		r.replyStoreError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, fmt.Sprintf("Today total (%s): %.1f", today, total), MainKeyboard())
}

// replyYesterday sends yesterday's total.
func (r *Router) replyYesterday(ctx context.Context, msg InboundMessage) {
	day := store.DayString(r.now().AddDate(0, 0, -1))
	total, err := r.store.TotalFor(msg.UserID, day)
	if err != nil {
		r.replyStoreError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, fmt.Sprintf("Yesterday (%s): %.1f", day, total), MainKeyboard())
}

// replyWeek sends the trailing 7-calendar-day total, today included.
func (r *Router) replyWeek(ctx context.Context, msg InboundMessage) {
	days := store.LastNDays(7, r.now())
	total, err := r.store.TotalOverRange(msg.UserID, days)
	if err != nil {
		r.replyStoreError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, fmt.Sprintf("Last 7 days: %.1f", total), MainKeyboard())
}

// replyReset clears today's entries.
func (r *Router) replyReset(ctx context.Context, msg InboundMessage) {
	today := store.DayString(r.now())
	if err := r.store.ClearDay(msg.UserID, today); err != nil {
		r.replyStoreError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, fmt.Sprintf("Cleared for today (%s).", today), MainKeyboard())
}

// replyStoreError logs a persistence failure and sends the generic apology.
func (r *Router) replyStoreError(ctx context.Context, msg InboundMessage, err error) {
	log.Printf("bot: router: store error for %s: %v", msg.UserID, err)
	r.reply(ctx, msg, "Could not reach storage. Please try again.", MainKeyboard())
}

// reply sends a message back to the channel the inbound message came from.
func (r *Router) reply(ctx context.Context, msg InboundMessage, text string, keyboard [][]string) {
	if err := r.adapter.Send(ctx, OutboundMessage{
		ChannelID: msg.ChannelID,
		Text:      text,
		Keyboard:  keyboard,
	}); err != nil {
		log.Printf("bot: router: send reply: %v", err)
	}
}

// isSelfMessage returns true if the message is from the bot itself.
func (r *Router) isSelfMessage(msg InboundMessage) bool {
	return r.botUserID != "" && msg.UserID == r.botUserID
}

// truncate returns s truncated to maxLen with "..." appended if needed.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
