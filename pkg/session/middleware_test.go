package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/session"
)

func update(userID, chatID int64) domain.Update {
	return domain.Update{
		From: &domain.User{ID: userID},
		Chat: &domain.Chat{ID: chatID},
		Text: "hey",
	}
}

func handle(t *testing.T, mw bot.Middleware, u domain.Update, h bot.Handler) error {
	t.Helper()
	return bot.Chain(h, mw)(context.Background(), bot.NewContext(u))
}

func TestInterceptor_BindsProperty(t *testing.T) {
	_, b := newRedis(t)
	store := session.NewStore(b)

	for _, tc := range []struct {
		property string
		key      session.KeyFunc
	}{
		{"session", session.UserChatKey},
		{"chatSession", session.ChatKey},
	} {
		t.Run(tc.property, func(t *testing.T) {
			interceptor := session.NewInterceptor(store, tc.property, tc.key, nil)
			assert.Equal(t, tc.property, interceptor.Property())
			mw := interceptor.Middleware()

			called := false
			err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
				called = true
				assert.True(t, c.Has(tc.property), "%s should be defined", tc.property)
				h, ok := session.FromContext(c, tc.property)
				require.True(t, ok)
				assert.NotNil(t, h.Get())
				return nil
			})
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}

func TestInterceptor_PersistsAndRestores(t *testing.T) {
	mr, b := newRedis(t)
	store := session.NewStore(b)
	mw := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()

	// Request A sets session.foo = 42
	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Get()["foo"] = 42
		return nil
	})
	require.NoError(t, err)

	raw, err := mr.Get("1:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"foo":42}`, raw)

	// Request B sees it
	err = handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		assert.Contains(t, h.Get(), "foo")
		assert.Equal(t, 42.0, h.Get()["foo"])
		return nil
	})
	require.NoError(t, err)
}

func TestInterceptor_HandlesNotExistingSession(t *testing.T) {
	_, b := newRedis(t)
	store := session.NewStore(b)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "1:1", domain.Session{"foo": 42}))
	require.NoError(t, store.Save(ctx, "1", domain.Session{"foo": 42}))

	userMW := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()
	err := handle(t, userMW, update(2, 1), func(ctx context.Context, c *bot.Context) error {
		h, ok := session.FromContext(c, "session")
		require.True(t, ok)
		assert.NotContains(t, h.Get(), "foo")
		return nil
	})
	require.NoError(t, err)

	chatMW := session.NewInterceptor(store, "chatSession", session.ChatKey, nil).Middleware()
	err = handle(t, chatMW, update(2, 2), func(ctx context.Context, c *bot.Context) error {
		h, ok := session.FromContext(c, "chatSession")
		require.True(t, ok)
		assert.NotContains(t, h.Get(), "foo")
		return nil
	})
	require.NoError(t, err)
}

func TestInterceptor_ChatKeyIsIndependent(t *testing.T) {
	_, b := newRedis(t)
	store := session.NewStore(b)
	userMW := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()
	chatMW := session.NewInterceptor(store, "chatSession", session.ChatKey, nil).Middleware()

	require.NoError(t, handle(t, userMW, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Get()["foo"] = 42
		return nil
	}))

	require.NoError(t, handle(t, chatMW, update(2, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "chatSession")
		assert.NotContains(t, h.Get(), "foo", "the chat key must not see the user+chat session")
		return nil
	}))
}

func TestInterceptor_SessionReset(t *testing.T) {
	mr, b := newRedis(t)
	store := session.NewStore(b)
	require.NoError(t, store.Save(context.Background(), "1:1", domain.Session{"foo": 42}))
	mw := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()

	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Set(nil)

		assert.NotNil(t, h.Get(), "a reset session reads as an empty object")
		assert.NotContains(t, h.Get(), "foo")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("1:1"), "a reset session is deleted")
}

func TestInterceptor_AssignmentIsShallowCopy(t *testing.T) {
	_, b := newRedis(t)
	store := session.NewStore(b)
	mw := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()

	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		replacement := domain.Session{"step": "one"}
		h.Set(replacement)

		// Mutating the assigned object afterwards does not reach the session.
		replacement["step"] = "two"
		replacement["extra"] = true
		assert.Equal(t, domain.Session{"step": "one"}, h.Get())
		return nil
	})
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{"step": "one"}, loaded)
}

func TestInterceptor_MissingIdentifierSkips(t *testing.T) {
	cases := map[string]struct {
		key    session.KeyFunc
		update domain.Update
	}{
		"user key without sender": {session.UserChatKey, domain.Update{Chat: &domain.Chat{ID: 1}}},
		"user key without chat":   {session.UserChatKey, domain.Update{From: &domain.User{ID: 1}}},
		"chat key without chat":   {session.ChatKey, domain.Update{From: &domain.User{ID: 1}}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stub := newStubBackend()
			mw := session.NewInterceptor(session.NewStore(stub), "session", tc.key, nil).Middleware()

			called := false
			err := handle(t, mw, tc.update, func(ctx context.Context, c *bot.Context) error {
				called = true
				assert.False(t, c.Has("session"), "no property is attached without a key")
				return nil
			})
			require.NoError(t, err)
			assert.True(t, called, "downstream still runs")
			assert.Empty(t, stub.Calls(), "no backend traffic without a key")
		})
	}
}

func TestInterceptor_ChatKeyNeedsOnlyChat(t *testing.T) {
	stub := newStubBackend()
	mw := session.NewInterceptor(session.NewStore(stub), "chatSession", session.ChatKey, nil).Middleware()

	err := handle(t, mw, domain.Update{Chat: &domain.Chat{ID: 5}}, func(ctx context.Context, c *bot.Context) error {
		assert.True(t, c.Has("chatSession"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET 5", "DEL 5"}, stub.Calls())
}

func TestInterceptor_DownstreamFailureSkipsSave(t *testing.T) {
	stub := newStubBackend()
	store := session.NewStore(stub)
	mw := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()
	boom := errors.New("handler exploded")

	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Get()["lost"] = true
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"GET 1:1"}, stub.Calls(), "save never runs after a failed handler")

	loaded, err := store.Load(context.Background(), "1:1")
	require.NoError(t, err)
	assert.NotContains(t, loaded, "lost")
}

func TestInterceptor_LoadFailureSkipsDownstream(t *testing.T) {
	stub := newStubBackend()
	stub.getErr = errors.New("connection refused")
	mw := session.NewInterceptor(session.NewStore(stub), "session", session.UserChatKey, nil).Middleware()

	called := false
	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, stub.getErr)
	assert.False(t, called)
}

func TestInterceptor_SaveFailureSurfaces(t *testing.T) {
	stub := newStubBackend()
	stub.setErr = errors.New("read-only replica")
	mw := session.NewInterceptor(session.NewStore(stub), "session", session.UserChatKey, nil).Middleware()

	ran := false
	err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
		ran = true
		h, _ := session.FromContext(c, "session")
		h.Get()["x"] = 1
		return nil
	})
	assert.True(t, ran, "downstream effects stand")
	assert.ErrorIs(t, err, stub.setErr)
}

func TestInterceptor_PersistsOncePerCycle(t *testing.T) {
	stub := newStubBackend()
	mw := session.NewInterceptor(session.NewStore(stub), "session", session.UserChatKey, nil).Middleware()

	err := handle(t, mw, update(3, 4), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Get()["a"] = 1
		h.Set(domain.Session{"b": 2})
		h.Get()["c"] = 3
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET 3:4", "SET 3:4"}, stub.Calls())

	loaded, err := session.NewStore(stub).Load(context.Background(), "3:4")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{"b": 2.0, "c": 3.0}, loaded, "only the final value is persisted")
}

func TestInterceptor_CustomKeyFunc(t *testing.T) {
	mr, b := newRedis(t)
	key := func(c *bot.Context) (string, bool) {
		cid, ok := c.Update.ChatID()
		return "tenant:" + cid, ok
	}
	mw := session.NewInterceptor(session.NewStore(b), "session", key, nil).Middleware()

	require.NoError(t, handle(t, mw, update(1, 9), func(ctx context.Context, c *bot.Context) error {
		h, _ := session.FromContext(c, "session")
		h.Get()["v"] = 1
		return nil
	}))
	assert.True(t, mr.Exists("tenant:9"))
}

// Concurrent cycles on the same key are not coordinated: each loads its own
// copy and the later save overwrites the earlier one entirely.
func TestInterceptor_LastWriterWins(t *testing.T) {
	_, b := newRedis(t)
	store := session.NewStore(b)
	require.NoError(t, store.Save(context.Background(), "1:1", domain.Session{"base": true}))
	mw := session.NewInterceptor(store, "session", session.UserChatKey, nil).Middleware()

	var (
		bothLoaded sync.WaitGroup
		firstSaved = make(chan struct{})
		wg         sync.WaitGroup
	)
	bothLoaded.Add(2)

	run := func(field string, wait <-chan struct{}) {
		defer wg.Done()
		err := handle(t, mw, update(1, 1), func(ctx context.Context, c *bot.Context) error {
			h, _ := session.FromContext(c, "session")
			h.Get()[field] = true
			bothLoaded.Done()
			bothLoaded.Wait()
			if wait != nil {
				<-wait
			}
			return nil
		})
		assert.NoError(t, err)
	}

	wg.Add(1)
	go func() {
		run("first", nil)
		close(firstSaved)
	}()
	wg.Add(1)
	go run("second", firstSaved)
	wg.Wait()

	loaded, err := store.Load(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{"base": true, "second": true}, loaded, "the later save replaces the earlier one")
}

func TestFromContext_WrongType(t *testing.T) {
	c := bot.NewContext(domain.Update{})
	c.Set("session", "not a handle")

	_, ok := session.FromContext(c, "session")
	assert.False(t, ok)

	_, ok = session.FromContext(c, "missing")
	assert.False(t, ok)
}
