package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/contactsaver/pkg/participant"
	"github.com/walteh/contactsaver/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// ErrTooManyAttempts is returned when a field is rejected more times than Options.MaxAttempts allows.
var ErrTooManyAttempts = errors.Base("too many invalid attempts")

const (
	greeting       = "Welcome to Optimist Contact Saver!"
	promptName     = "Enter participant name: "
	promptAge      = "Enter age: "
	promptPhone    = "Enter phone number: "
	promptTrack    = "Enter track: "
	promptContinue = "Add another participant? (yes/no): "
)

// 🚦 State is the session's position in its loop
type State int

const (
	StateCollecting State = iota
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Store is what a session needs from the record store.
type Store interface {
	store.Appender
	store.Loader
}

// 📺 Console receives user-facing output
type Console interface {
	Header(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Total(n int)
	Record(rec participant.Record)
}

// Options tunes a session.
type Options struct {
	// MaxAttempts caps invalid answers per field. Zero means no limit.
	MaxAttempts int
}

// 📊 Summary is the outcome of a finished session
type Summary struct {
	Saved   int
	Failed  int
	Records []participant.Record
}

// 🗣️ Session drives the prompt, validate, save loop
type Session struct {
	store    Store
	prompter Prompter
	console  Console
	opts     Options
	state    State
}

// 🏭 New creates a session in the collecting state
func New(st Store, prompter Prompter, console Console, opts Options) *Session {
	return &Session{
		store:    st,
		prompter: prompter,
		console:  console,
		opts:     opts,
		state:    StateCollecting,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Run collects participants until the user stops or input runs out, then
// lists everything in the store. Exhausted input is a normal exit.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := &Summary{}

	s.console.Header(greeting)

	for s.state == StateCollecting {
		rec, err := s.collect(ctx)
		if errors.Is(err, ErrInputClosed) {
			logger.Debug().Msg("input closed while collecting, finishing session")
			s.state = StateDone
			break
		}
		if err != nil {
			return summary, err
		}

		if err := s.store.Append(ctx, rec); err != nil {
			summary.Failed++
			s.console.Warning("Could not save " + rec.Name + ": " + err.Error())
		} else {
			summary.Saved++
			s.console.Success("Saved " + rec.Name + " successfully!")
		}

		more, err := s.prompter.Confirm(ctx, promptContinue)
		if err != nil && !errors.Is(err, ErrInputClosed) {
			return summary, errors.Errorf("asking to continue: %w", err)
		}
		if !more {
			s.state = StateDone
		}
	}

	recs, err := s.store.LoadAll(ctx)
	if err != nil {
		s.console.Warning("Could not load every participant: " + err.Error())
	}
	summary.Records = recs

	s.console.Total(len(recs))
	for _, rec := range recs {
		s.console.Record(rec)
	}

	logger.Debug().
		Int("saved", summary.Saved).
		Int("failed", summary.Failed).
		Int("total", len(recs)).
		Msg("session finished")

	return summary, nil
}

func (s *Session) collect(ctx context.Context) (participant.Record, error) {
	name, err := s.ask(ctx, "name", promptName, participant.ValidateName)
	if err != nil {
		return participant.Record{}, err
	}

	ageText, err := s.ask(ctx, "age", promptAge, participant.ValidateAge)
	if err != nil {
		return participant.Record{}, err
	}
	age, err := participant.ParseAge(ageText)
	if err != nil {
		return participant.Record{}, errors.Errorf("parsing age: %w", err)
	}

	phone, err := s.ask(ctx, "phone", promptPhone, participant.ValidatePhone)
	if err != nil {
		return participant.Record{}, err
	}

	track, err := s.ask(ctx, "track", promptTrack, participant.ValidateTrack)
	if err != nil {
		return participant.Record{}, err
	}

	return participant.Record{
		Name:  name,
		Age:   age,
		Phone: phone,
		Track: track,
	}, nil
}

// ask re-prompts until validate accepts the trimmed answer.
func (s *Session) ask(ctx context.Context, field, prompt string, validate func(string) error) (string, error) {
	for attempt := 1; ; attempt++ {
		answer, err := s.prompter.Ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)

		verr := validate(answer)
		if verr == nil {
			return answer, nil
		}
		s.console.Error(verr.Error())

		if s.opts.MaxAttempts > 0 && attempt >= s.opts.MaxAttempts {
			return "", errors.Errorf("%s: %w", field, ErrTooManyAttempts)
		}
	}
}
