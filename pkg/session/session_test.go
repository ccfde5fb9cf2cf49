package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/contactsaver/pkg/log"
	"github.com/walteh/contactsaver/pkg/participant"
	"github.com/walteh/contactsaver/pkg/store"
	"gitlab.com/tozd/go/errors"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

type harness struct {
	fs      afero.Fs
	store   *store.Store
	prompts *bytes.Buffer
	console *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	fs := afero.NewMemMapFs()
	return &harness{
		fs:      fs,
		store:   store.New(fs, "workspace/contacts.csv"),
		prompts: &bytes.Buffer{},
		console: &bytes.Buffer{},
	}
}

func (h *harness) session(t *testing.T, input string, opts Options) *Session {
	return h.sessionWithStore(t, h.store, input, opts)
}

func (h *harness) sessionWithStore(t *testing.T, st Store, input string, opts Options) *Session {
	prompter := NewLinePrompter(strings.NewReader(input), h.prompts)
	console := log.New(h.console, zerolog.New(zerolog.TestWriter{T: t}))
	return New(st, prompter, console, opts)
}

func TestRunSingleParticipant(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	s := h.session(t, "Ada\n30\n08012345678\nBackend\nno\n", Options{})
	summary, err := s.Run(ctx)
	require.NoError(t, err, "running session")

	assert.Equal(t, StateDone, s.State())
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, participant.Record{Name: "Ada", Age: 30, Phone: "08012345678", Track: "Backend"}, summary.Records[0])

	data, err := afero.ReadFile(h.fs, "workspace/contacts.csv")
	require.NoError(t, err)
	assert.Equal(t, "Name,Age,Phone,Track\nAda,30,08012345678,Backend\n", string(data))

	out := h.console.String()
	assert.Contains(t, out, "Welcome to Optimist Contact Saver!")
	assert.Contains(t, out, "Saved Ada successfully!")
	assert.Contains(t, out, "Total participants saved: 1")
	assert.Contains(t, out, "- Ada (30 yrs, 08012345678, Track: Backend)")

	prompts := h.prompts.String()
	assert.Contains(t, prompts, "Enter participant name: ")
	assert.Contains(t, prompts, "Add another participant? (yes/no): ")
}

func TestRunMultipleParticipants(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	input := strings.Join([]string{
		"Ada", "30", "08012345678", "Backend", "YES",
		"Bob", "41", "08087654321", "Mobile", " yes ",
		"Cy", "22", "08011112222", "Data", "nope",
	}, "\n") + "\n"

	summary, err := h.session(t, input, Options{}).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Saved)
	require.Len(t, summary.Records, 3)
	assert.Equal(t, "Ada", summary.Records[0].Name)
	assert.Equal(t, "Bob", summary.Records[1].Name)
	assert.Equal(t, "Cy", summary.Records[2].Name)
	assert.Contains(t, h.console.String(), "Total participants saved: 3")
}

func TestRunRepromptsInvalidInput(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	input := strings.Join([]string{
		"", "   ", "Ada",
		"abc", "30",
		"123", "0801234567x", "08012345678",
		"", "Backend",
		"no",
	}, "\n") + "\n"

	summary, err := h.session(t, input, Options{}).Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Records, 1)

	out := h.console.String()
	assert.Equal(t, 2, strings.Count(out, "Name cannot be empty!"))
	assert.Equal(t, 1, strings.Count(out, "Age must be a number!"))
	assert.Equal(t, 2, strings.Count(out, "Phone must be digits and at least 11 characters!"))
	assert.Equal(t, 1, strings.Count(out, "Track cannot be empty!"))
	assert.Equal(t, 3, strings.Count(h.prompts.String(), "Enter participant name: "))
}

func TestRunTrimsAnswers(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	summary, err := h.session(t, "  Ada  \r\n 30 \r\n08012345678\r\n Backend\r\nno\r\n", Options{}).Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, participant.Record{Name: "Ada", Age: 30, Phone: "08012345678", Track: "Backend"}, summary.Records[0])
}

func TestRunRetryLimit(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	s := h.session(t, "Ada\nabc\nxyz\n-1\n30\n", Options{MaxAttempts: 3})
	_, err := s.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Contains(t, err.Error(), "age")

	exists, err := afero.Exists(h.fs, "workspace/contacts.csv")
	require.NoError(t, err)
	assert.False(t, exists, "nothing should be saved")
}

func TestRunInputExhausted(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("mid_record", func(t *testing.T) {
		h := newHarness(t)
		summary, err := h.session(t, "Ada\n30\n", Options{}).Run(ctx)
		require.NoError(t, err, "exhausted input is a normal exit")
		assert.Equal(t, 0, summary.Saved)
		assert.Empty(t, summary.Records)
		assert.Contains(t, h.console.String(), "Total participants saved: 0")
	})

	t.Run("while_invalid_unbounded", func(t *testing.T) {
		h := newHarness(t)
		summary, err := h.session(t, "\n\n\n", Options{}).Run(ctx)
		require.NoError(t, err, "unbounded retries end when input runs out")
		assert.Empty(t, summary.Records)
	})

	t.Run("at_continue_prompt", func(t *testing.T) {
		h := newHarness(t)
		summary, err := h.session(t, "Ada\n30\n08012345678\nBackend", Options{}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Saved)
		require.Len(t, summary.Records, 1)
	})
}

func TestRunCancelledContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(setupTestLogger(t))
	cancel()

	_, err := h.session(t, "Ada\n30\n08012345678\nBackend\nno\n", Options{}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunListsExistingRecords(t *testing.T) {
	ctx := setupTestLogger(t)
	h := newHarness(t)

	require.NoError(t, h.store.Append(ctx, participant.Record{Name: "Earlier", Age: 50, Phone: "08000000000", Track: "Ops"}))

	summary, err := h.session(t, "Ada\n30\n08012345678\nBackend\nno\n", Options{}).Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Records, 2)
	assert.Equal(t, "Earlier", summary.Records[0].Name)
	assert.Equal(t, "Ada", summary.Records[1].Name)
}

type failingStore struct {
	appendErr error
	loadErr   error
	recs      []participant.Record
}

func (f *failingStore) Append(ctx context.Context, rec participant.Record) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.recs = append(f.recs, rec)
	return nil
}

func (f *failingStore) LoadAll(ctx context.Context) ([]participant.Record, error) {
	return f.recs, f.loadErr
}

func TestRunStoreFailures(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("append_failure_is_reported", func(t *testing.T) {
		h := newHarness(t)
		st := &failingStore{appendErr: errors.New("disk full")}

		summary, err := h.sessionWithStore(t, st, "Ada\n30\n08012345678\nBackend\nno\n", Options{}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Saved)
		assert.Equal(t, 1, summary.Failed)

		out := h.console.String()
		assert.Contains(t, out, "Could not save Ada: disk full")
		assert.NotContains(t, out, "Saved Ada successfully!")
	})

	t.Run("load_failure_shows_partial", func(t *testing.T) {
		h := newHarness(t)
		st := &failingStore{loadErr: errors.New("bad row")}

		summary, err := h.sessionWithStore(t, st, "Ada\n30\n08012345678\nBackend\nno\n", Options{}).Run(ctx)
		require.NoError(t, err)
		require.Len(t, summary.Records, 1)

		out := h.console.String()
		assert.Contains(t, out, "Could not load every participant: bad row")
		assert.Contains(t, out, "Total participants saved: 1")
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "collecting", StateCollecting.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(42).String())
}
