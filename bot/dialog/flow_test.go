package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/wasupalonely/appointments-chatbot/bot/photos"
	"github.com/wasupalonely/appointments-chatbot/bot/presenter"
	"github.com/wasupalonely/appointments-chatbot/bot/session"
	"github.com/wasupalonely/appointments-chatbot/bot/storage"
	"github.com/wasupalonely/appointments-chatbot/bot/texts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type fakeTransport struct {
	nextID  int
	sent    []sentMsg
	deleted []string
	editErr error
}

type sentMsg struct {
	text   string
	markup *tele.ReplyMarkup
}

func markupOf(opts []interface{}) *tele.ReplyMarkup {
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}

func (f *fakeTransport) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.nextID++
	text, _ := what.(string)
	f.sent = append(f.sent, sentMsg{text: text, markup: markupOf(opts)})
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeTransport) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	text, _ := what.(string)
	f.sent = append(f.sent, sentMsg{text: text, markup: markupOf(opts)})
	if m, ok := msg.(*tele.Message); ok {
		return &tele.Message{ID: m.ID}, nil
	}
	return &tele.Message{}, nil
}

func (f *fakeTransport) Delete(msg tele.Editable) error {
	id, _ := msg.MessageSig()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransport) last() sentMsg {
	if len(f.sent) == 0 {
		return sentMsg{}
	}
	return f.sent[len(f.sent)-1]
}

func buttonLabels(m *tele.ReplyMarkup) []string {
	if m == nil {
		return nil
	}
	var labels []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}
	return labels
}

type testCtx struct {
	tele.Context
	sender *tele.User
	chat   *tele.Chat
	text   string
	cb     *tele.Callback
	bag    map[string]interface{}
}

func (c *testCtx) Update() tele.Update         { return tele.Update{} }
func (c *testCtx) Sender() *tele.User          { return c.sender }
func (c *testCtx) Chat() *tele.Chat            { return c.chat }
func (c *testCtx) Text() string                { return c.text }
func (c *testCtx) Callback() *tele.Callback    { return c.cb }
func (c *testCtx) Get(k string) interface{}    { return c.bag[k] }
func (c *testCtx) Set(k string, v interface{}) { c.bag[k] = v }

func textCtx(userID int64, text string) *testCtx {
	return &testCtx{
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: userID},
		text:   text,
		bag:    map[string]interface{}{},
	}
}

func cbCtx(userID int64, unique, payload string) *testCtx {
	return &testCtx{
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: userID},
		cb:     &tele.Callback{Unique: unique, Data: payload},
		bag:    map[string]interface{}{},
	}
}

func newTestFlow(t *testing.T) (*Flow, *fakeTransport, storage.Store) {
	t.Helper()
	tr := &fakeTransport{}
	store := storage.NewMemoryStore()
	pres := presenter.New(tr, session.New())
	return NewFlow(store, pres, photos.NewGallery(t.TempDir())), tr, store
}

func TestOnboardingNewUser(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	// /start on a fresh chat prompts for a name in Spanish.
	require.NoError(t, f.Start(textCtx(1, "/start")))
	assert.Equal(t, texts.Text("welcome", texts.LangES), tr.last().text)
	assert.Equal(t, StateAwaitingName, f.states.State(1))

	// The name reply opens the language picker.
	require.NoError(t, f.HandleText(textCtx(1, "Ana")))
	assert.Equal(t, texts.Text("language_selection", texts.LangES), tr.last().text)
	assert.Equal(t, StateAwaitingLanguage, f.states.State(1))

	p, err := store.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)

	// Selecting English lands on the localized greeting and menu.
	require.NoError(t, f.Language(cbCtx(1, "lang", "en")))
	assert.Equal(t, texts.Text("menu_greeting", texts.LangEN, "Ana"), tr.last().text)
	assert.Len(t, buttonLabels(tr.last().markup), len(Categories))
	assert.Equal(t, StateMainMenu, f.states.State(1))

	p, err = store.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "en", p.Language)
}

func TestUnknownTextLeavesStateUntouched(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)

	for _, state := range []State{StateMainMenu, StateSubmenu, StateFeedback} {
		f.states.Set(1, state)
		require.NoError(t, f.HandleText(textCtx(1, "what are your prices?")))
		assert.Equal(t, texts.Text("unknown_command", "en", "Ana"), tr.last().text)
		// A notice, not a menu replacement: no keyboard, nothing deleted.
		assert.Nil(t, tr.last().markup)
		assert.Empty(t, tr.deleted)
		assert.Equal(t, state, f.states.State(1))
	}
}

func TestReturningUserWithoutCheckpoint(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)

	require.NoError(t, f.Start(textCtx(1, "/start")))
	assert.Equal(t, texts.Text("welcome_back", "en", "Ana"), tr.last().text)
	assert.Len(t, tr.sent, 1, "no resumption prompt without a checkpoint")
	assert.Equal(t, StateMainMenu, f.states.State(1))
}

func TestReturningUserOffersResume(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	require.NoError(t, store.SaveCheckpoint(ctx, 1, storage.Checkpoint{State: "submenu", Context: "hours"}))

	require.NoError(t, f.Start(textCtx(1, "/start")))
	assert.Contains(t, tr.last().text, "Hours")
	assert.Contains(t, tr.last().text, "Ana")
	assert.ElementsMatch(t,
		[]string{texts.Text("resume_yes", "en"), texts.Text("resume_no", "en")},
		buttonLabels(tr.last().markup))
}

func TestResumeNoIsIdempotent(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	require.NoError(t, store.SaveCheckpoint(ctx, 1, storage.Checkpoint{State: "submenu", Context: "hours"}))

	for i := 0; i < 2; i++ {
		require.NoError(t, f.Resume(cbCtx(1, "resume", "no")))
		assert.Equal(t, texts.Text("what_else", "en", "Ana"), tr.last().text)
		assert.Len(t, buttonLabels(tr.last().markup), len(Categories))
		assert.Equal(t, StateMainMenu, f.states.State(1))
	}
}

func TestResumeYesReopensCheckpointedCategory(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	require.NoError(t, store.SaveCheckpoint(ctx, 1, storage.Checkpoint{State: "submenu", Context: "hours"}))

	require.NoError(t, f.Resume(cbCtx(1, "resume", "yes")))
	assert.Equal(t, texts.Text("select_hours", "en", "Ana"), tr.last().text)
	assert.Equal(t, StateSubmenu, f.states.State(1))
}

func TestHoursSubmenuFlow(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	f.states.Set(1, StateMainMenu)

	require.NoError(t, f.Menu(cbCtx(1, "menu", "hours")))
	assert.Equal(t, texts.Text("select_hours", "en", "Ana"), tr.last().text)
	assert.Equal(t, []string{"Opening hours", "Appointment hours", texts.Text("back", "en")},
		buttonLabels(tr.last().markup))
	assert.Equal(t, StateSubmenu, f.states.State(1))

	cp, ok, err := store.Checkpoint(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hours", cp.Context)

	require.NoError(t, f.SubmenuLeaf(cbCtx(1, "sub", "hours_opening")))
	assert.Equal(t, texts.Text("opening_hours", "en", "Ana"), tr.last().text)
	assert.Equal(t, StateSubmenu, f.states.State(1))

	cp, ok, err = store.Checkpoint(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hours_opening", cp.Context)
}

func TestFeedbackRatingStored(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	f.states.Set(1, StateFeedback)

	require.NoError(t, f.FeedbackRate(cbCtx(1, "fb", "4")))

	p, err := store.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Feedback)
	assert.Equal(t, StateMainMenu, f.states.State(1))

	// Thank-you first, then a fresh menu pushed below it.
	require.GreaterOrEqual(t, len(tr.sent), 2)
	assert.Equal(t, texts.Text("thanks_feedback", "en", "Ana"), tr.sent[len(tr.sent)-2].text)
	assert.Equal(t, texts.Text("what_else", "en", "Ana"), tr.last().text)
}

func TestLocationLeafSendsTrackedPin(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "es"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)

	require.NoError(t, f.Location(cbCtx(1, "loc", "location_main")))
	assert.Equal(t, texts.Text("address_main", "es"), tr.sent[0].text)
	// The pin is a separate, tracked message.
	require.Len(t, tr.sent, 2)
	assert.Equal(t, []int{2}, f.pres.Sessions().DrainAncillary(1))
}

func TestPhotosWithEmptyGallery(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)

	require.NoError(t, f.Photos(cbCtx(1, "photos", "photos_main")))
	assert.Contains(t, tr.last().text, "Main Office")
	assert.Contains(t, tr.last().text, "No photos")
}

func TestBackFlushesAncillary(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)

	require.NoError(t, f.Location(cbCtx(1, "loc", "location_main")))
	require.NoError(t, f.Back(cbCtx(1, "back", "")))

	assert.Equal(t, texts.Text("what_else", "en", "Ana"), tr.last().text)
	assert.Nil(t, f.pres.Sessions().DrainAncillary(1))
	assert.NotEmpty(t, tr.deleted)
	assert.Equal(t, StateMainMenu, f.states.State(1))
}

func TestUnknownCallbackFallsBackToMainMenu(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	f.states.Set(1, StateSubmenu)

	// A code from a keyboard that predates the current catalog.
	require.NoError(t, f.UnknownCallback(cbCtx(1, "legacy", "old_code")))
	assert.Equal(t, texts.Text("what_else", "en", "Ana"), tr.last().text)
	assert.Len(t, buttonLabels(tr.last().markup), len(Categories))
	assert.Equal(t, StateMainMenu, f.states.State(1))
}

func TestGuardForcesMainMenuOnError(t *testing.T) {
	f, tr, store := newTestFlow(t)
	ctx := context.Background()

	name, lang := "Ana", "en"
	_, err := store.UpdateProfile(ctx, 1, storage.ProfilePatch{Name: &name, Language: &lang})
	require.NoError(t, err)
	f.states.Set(1, StateSubmenu)

	h := f.Guard("boom", func(tele.Context) error { return errors.New("boom") })
	require.NoError(t, h(textCtx(1, "x")))

	assert.Equal(t, StateMainMenu, f.states.State(1))
	require.GreaterOrEqual(t, len(tr.sent), 2)
	assert.Equal(t, texts.Text("error_message", "en"), tr.sent[len(tr.sent)-2].text)
	assert.Equal(t, texts.Text("what_else", "en", "Ana"), tr.last().text)
}

func TestGuardRecoversPanic(t *testing.T) {
	f, _, _ := newTestFlow(t)
	h := f.Guard("boom", func(tele.Context) error { panic("unexpected") })
	require.NoError(t, h(textCtx(1, "x")))
	assert.Equal(t, StateMainMenu, f.states.State(1))
}
