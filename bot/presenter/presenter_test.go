package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/wasupalonely/appointments-chatbot/bot/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type fakeTransport struct {
	nextID   int
	sent     []string
	markups  []*tele.ReplyMarkup
	edited   []int
	deleted  []string
	sendErrs int
	editErr  error
	delErr   error
}

func (f *fakeTransport) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.sendErrs > 0 {
		f.sendErrs--
		return nil, errors.New("send failed")
	}
	var markup *tele.ReplyMarkup
	for _, opt := range opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			markup = m
		}
	}
	f.markups = append(f.markups, markup)
	f.nextID++
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	} else {
		f.sent = append(f.sent, "payload")
	}
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeTransport) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	if m, ok := msg.(*tele.Message); ok {
		f.edited = append(f.edited, m.ID)
		return &tele.Message{ID: m.ID}, nil
	}
	f.edited = append(f.edited, 0)
	return &tele.Message{}, nil
}

func (f *fakeTransport) Delete(msg tele.Editable) error {
	id, _ := msg.MessageSig()
	f.deleted = append(f.deleted, id)
	return f.delErr
}

type cbContext struct {
	tele.Context
	cb *tele.Callback
}

func (c cbContext) Callback() *tele.Callback { return c.cb }

func TestRenderFirstMessageSends(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr, session.New())

	err := p.Render(context.Background(), nil, 1, "hola", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hola"}, tr.sent)
	assert.Empty(t, tr.deleted)
	assert.Equal(t, 1, p.Sessions().Last(1))
}

func TestRenderDeletesPreviousOnPlainSend(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr, session.New())
	p.Sessions().SetLast(1, 40)

	require.NoError(t, p.Render(context.Background(), nil, 1, "next", nil))
	assert.Equal(t, []string{"40"}, tr.deleted)
	assert.Equal(t, 1, p.Sessions().Last(1))
}

func TestRenderEditsCallbackMessageInPlace(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr, session.New())
	p.Sessions().SetLast(1, 40)

	c := cbContext{cb: &tele.Callback{Message: &tele.Message{ID: 40, Chat: &tele.Chat{ID: 1}}}}
	require.NoError(t, p.Render(context.Background(), c, 1, "edited", nil))

	// The tapped message is the tracked one, so nothing is deleted.
	assert.Empty(t, tr.deleted)
	assert.Equal(t, []int{40}, tr.edited)
	assert.Empty(t, tr.sent)
	assert.Equal(t, 40, p.Sessions().Last(1))
}

func TestRenderEditFailureFallsBackToSend(t *testing.T) {
	tr := &fakeTransport{editErr: errors.New("message to edit not found")}
	p := New(tr, session.New())
	p.Sessions().SetLast(1, 40)

	c := cbContext{cb: &tele.Callback{Message: &tele.Message{ID: 40, Chat: &tele.Chat{ID: 1}}}}
	require.NoError(t, p.Render(context.Background(), c, 1, "fresh", nil))

	assert.Equal(t, []string{"fresh"}, tr.sent)
	assert.Equal(t, 1, p.Sessions().Last(1))
	// The uneditable callback message gets cleaned up.
	assert.Equal(t, []string{"40"}, tr.deleted)
}

func TestRenderDeleteFailureIsSwallowed(t *testing.T) {
	tr := &fakeTransport{delErr: errors.New("message not found")}
	p := New(tr, session.New())
	p.Sessions().SetLast(1, 40)

	require.NoError(t, p.Render(context.Background(), nil, 1, "next", nil))
	assert.Equal(t, []string{"next"}, tr.sent)
}

func TestRenderLastResortKeepsKeyboard(t *testing.T) {
	tr := &fakeTransport{sendErrs: 1}
	p := New(tr, session.New())
	markup := &tele.ReplyMarkup{}

	require.NoError(t, p.Render(context.Background(), nil, 1, "menu", markup))
	assert.Equal(t, []string{"menu"}, tr.sent)
	// The retry carries the same keyboard as the failed send.
	require.Len(t, tr.markups, 1)
	assert.Same(t, markup, tr.markups[0])
	assert.Equal(t, 1, p.Sessions().Last(1))
}

func TestPushKeepsPreviousMessage(t *testing.T) {
	tr := &fakeTransport{}
	p := New(tr, session.New())
	p.Sessions().SetLast(1, 40)

	require.NoError(t, p.Push(context.Background(), 1, "thanks", nil))
	assert.Empty(t, tr.deleted)
	assert.Equal(t, 1, p.Sessions().Last(1))
}

func TestFlushAncillaryClearsEvenOnFailure(t *testing.T) {
	tr := &fakeTransport{delErr: errors.New("gone")}
	p := New(tr, session.New())
	p.SendTracked(context.Background(), 1, "photo")
	p.SendTracked(context.Background(), 1, "pin")

	p.FlushAncillary(context.Background(), 1)
	assert.Len(t, tr.deleted, 2)
	assert.Nil(t, p.Sessions().DrainAncillary(1))
}

func TestSendTrackedFailureReturnsNil(t *testing.T) {
	tr := &fakeTransport{sendErrs: 1}
	p := New(tr, session.New())

	assert.Nil(t, p.SendTracked(context.Background(), 1, "photo"))
	assert.Nil(t, p.Sessions().DrainAncillary(1))
}
