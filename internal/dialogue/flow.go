// Package dialogue implements the multi-step input flows that collect the
// fields for one entry, plus the per-user session store that carries a flow
// between messages.
package dialogue

import (
	"fmt"
	"strings"
	"time"
)

// FlowKind identifies one of the three input flows.
type FlowKind int

const (
	// FlowWeight collects name, grams, then kcal per 100g.
	FlowWeight FlowKind = iota
	// FlowDirect collects name, then portion kcal.
	FlowDirect
	// FlowDate collects a calendar date and reports that day.
	FlowDate
)

// Session is the transient state of one in-progress flow for one user.
// It lives only in the session store and is destroyed on completion,
// cancellation, replacement, or expiry.
type Session struct {
	Kind FlowKind
	Step int

	Name       string
	Grams      float64
	KcalPer100 float64
	Kcal       float64
	Day        string

	LastActive time.Time
}

// Outcome classifies the result of feeding one message to a session.
type Outcome int

const (
	// OutcomeReprompt means the input was rejected; the state did not
	// advance and the reply is a corrective instruction.
	OutcomeReprompt Outcome = iota
	// OutcomePrompt means the input was accepted and the reply prompts
	// for the next field.
	OutcomePrompt
	// OutcomeDone means the final field was accepted; the caller commits
	// the collected fields and destroys the session.
	OutcomeDone
)

// step is one field-collection position within a flow: the prompt asked on
// entering it, the corrective reprompts, and the parse/validate/assign hook.
type step struct {
	prompt     string
	reprompt   string
	onReserved string // reply when a shortcut label arrives; falls back to reprompt
	apply      func(s *Session, input string) error
}

func nameStep() step {
	return step{
		prompt:   "Enter product name:",
		reprompt: "Enter product name (text):",
		apply: func(s *Session, input string) error {
			name := strings.TrimSpace(input)
			if name == "" {
				return fmt.Errorf("dialogue: empty name")
			}
			s.Name = name
			return nil
		},
	}
}

var flowSteps = map[FlowKind][]step{
	FlowWeight: {
		nameStep(),
		{
			prompt:     "Enter grams (e.g. 120):",
			reprompt:   "Grams must be a number > 0. Example: 120",
			onReserved: "Enter a number (grams) or press Cancel.",
			apply: func(s *Session, input string) error {
				grams, err := ExtractNumber(input)
				if err != nil {
					return err
				}
				if grams <= 0 {
					return fmt.Errorf("dialogue: grams must be > 0")
				}
				s.Grams = grams
				return nil
			},
		},
		{
			prompt:     "Enter kcal per 100g (e.g. 89):",
			reprompt:   "kcal/100g must be a number >= 0. Example: 89",
			onReserved: "Enter a number (kcal per 100g) or press Cancel.",
			apply: func(s *Session, input string) error {
				kcal100, err := ExtractNumber(input)
				if err != nil {
					return err
				}
				if kcal100 < 0 {
					return fmt.Errorf("dialogue: kcal/100g must be >= 0")
				}
				s.KcalPer100 = kcal100
				return nil
			},
		},
	},
	FlowDirect: {
		nameStep(),
		{
			prompt:     "Enter portion kcal (e.g. 250):",
			reprompt:   "kcal must be a number >= 0. Example: 250",
			onReserved: "Enter a number (portion kcal) or press Cancel.",
			apply: func(s *Session, input string) error {
				kcal, err := ExtractNumber(input)
				if err != nil {
					return err
				}
				if kcal < 0 {
					return fmt.Errorf("dialogue: kcal must be >= 0")
				}
				s.Kcal = kcal
				return nil
			},
		},
	},
	FlowDate: {
		{
			prompt:   "Enter a date (YYYY-MM-DD):",
			reprompt: "Date must be a valid YYYY-MM-DD date, e.g. 2024-02-20.",
			apply: func(s *Session, input string) error {
				day, err := ParseDay(input)
				if err != nil {
					return err
				}
				s.Day = day
				return nil
			},
		},
	},
}

// Start creates a fresh session for the given flow and returns it together
// with the first prompt.
func Start(kind FlowKind) (*Session, string) {
	s := &Session{Kind: kind}
	return s, flowSteps[kind][0].prompt
}

// Advance feeds one message to the session. Shortcut labels (per the
// reserved predicate) are rejected with a re-prompt so a stray button press
// is never swallowed as a data value. On acceptance of a non-final field the
// reply is the next step's prompt; on acceptance of the final field the
// outcome is OutcomeDone and the caller commits.
func Advance(s *Session, input string, reserved func(string) bool) (Outcome, string) {
	steps := flowSteps[s.Kind]
	cur := steps[s.Step]

	if reserved != nil && reserved(strings.TrimSpace(input)) {
		if cur.onReserved != "" {
			return OutcomeReprompt, cur.onReserved
		}
		return OutcomeReprompt, cur.reprompt
	}

	if err := cur.apply(s, input); err != nil {
		return OutcomeReprompt, cur.reprompt
	}

	s.Step++
	if s.Step >= len(steps) {
		return OutcomeDone, ""
	}
	return OutcomePrompt, steps[s.Step].prompt
}

// Retry rewinds the session to re-collect its final field, used when the
// commit itself failed and the already-collected fields should be kept.
func Retry(s *Session) string {
	steps := flowSteps[s.Kind]
	if s.Step >= len(steps) {
		s.Step = len(steps) - 1
	}
	return steps[s.Step].prompt
}
