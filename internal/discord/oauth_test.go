package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/repository/memory"
)

type memoryStates struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryStates() *memoryStates {
	return &memoryStates{values: map[string]string{}}
}

func (s *memoryStates) Put(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStates) Take(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", errors.New("miss")
	}
	delete(s.values, key)
	return v, nil
}

type fakeRoles struct {
	admins map[string]bool
	err    error
	calls  int
}

func (f *fakeRoles) IsAdmin(_ context.Context, id string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.admins[id], nil
}

type fakeDiscord struct {
	tokenStatus   int
	profileStatus int
	profile       map[string]any
	gotCode       string
	gotBearer     string
}

func (d *fakeDiscord) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		d.gotCode = r.PostForm.Get("code")
		if d.tokenStatus != 0 {
			w.WriteHeader(d.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "user-access-token",
			"token_type":   "Bearer",
			"expires_in":   604800,
			"scope":        "identify",
		})
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		d.gotBearer = r.Header.Get("Authorization")
		if d.profileStatus != 0 {
			w.WriteHeader(d.profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d.profile)
	})
	return mux
}

type exchangerFixture struct {
	exchanger  *Exchanger
	discord    *fakeDiscord
	roles      *fakeRoles
	states     *memoryStates
	identities *memory.DiscordIdentityRepository
	tokens     *auth.TokenManager
}

func newExchangerFixture(t *testing.T) *exchangerFixture {
	t.Helper()
	fd := &fakeDiscord{profile: map[string]any{
		"id":            "80351110224678912",
		"username":      "nelly",
		"global_name":   "Nelly",
		"avatar":        "8342729096ea3675442027381ff50dfe",
		"discriminator": "0",
	}}
	srv := httptest.NewServer(fd.handler())
	t.Cleanup(srv.Close)

	cfg := config.DiscordConfig{
		ClientID:       "client",
		ClientSecret:   "secret",
		RedirectURL:    "https://rp.example/api/auth/discord/callback",
		APIBaseURL:     srv.URL,
		TimeoutSeconds: 5,
	}
	roles := &fakeRoles{admins: map[string]bool{}}
	states := newMemoryStates()
	identities := memory.NewDiscordIdentityRepository()
	tokens := auth.NewTokenManager("test-secret")

	return &exchangerFixture{
		exchanger:  NewExchanger(cfg, states, roles, identities, tokens, zap.NewNop(), nil),
		discord:    fd,
		roles:      roles,
		states:     states,
		identities: identities,
		tokens:     tokens,
	}
}

func (f *exchangerFixture) authorize(t *testing.T) string {
	t.Helper()
	raw, err := f.exchanger.AuthorizeURL(context.Background())
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func requireFlowError(t *testing.T, err error, state FlowState, target error) {
	t.Helper()
	var flowErr *FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, state, flowErr.State)
	assert.ErrorIs(t, err, target)
}

func TestAuthorizeURL(t *testing.T) {
	f := newExchangerFixture(t)
	raw, err := f.exchanger.AuthorizeURL(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify", q.Get("scope"))
	assert.Equal(t, "https://rp.example/api/auth/discord/callback", q.Get("redirect_uri"))
	assert.Contains(t, f.states.values, stateKey(q.Get("state")))
}

func TestCallbackCreatesIdentity(t *testing.T) {
	f := newExchangerFixture(t)
	f.roles.admins["80351110224678912"] = true
	state := f.authorize(t)

	result, err := f.exchanger.Callback(context.Background(), "the-code", state)
	require.NoError(t, err)

	assert.Equal(t, "the-code", f.discord.gotCode)
	assert.Equal(t, "Bearer user-access-token", f.discord.gotBearer)

	assert.NotEmpty(t, result.Identity.ID)
	assert.Equal(t, "80351110224678912", result.Identity.DiscordID)
	assert.Equal(t, "Nelly", result.Identity.Username)
	assert.True(t, result.Identity.IsAdmin)

	claims, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalKindDiscord, claims.Kind)
	assert.Equal(t, "80351110224678912", claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestCallbackNonMemberIsNotAdmin(t *testing.T) {
	f := newExchangerFixture(t)

	result, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
	require.NoError(t, err)
	assert.False(t, result.Identity.IsAdmin)
	assert.False(t, result.Claims.IsAdmin)

	p := auth.DiscordPrincipal{Identity: result.Identity}
	assert.ErrorIs(t, auth.RequireAdmin(p), auth.ErrAdminRequired)
}

func TestCallbackRoleCheckErrorDegrades(t *testing.T) {
	f := newExchangerFixture(t)
	f.roles.err = errors.New("discord unavailable")

	result, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
	require.NoError(t, err)
	assert.Equal(t, 1, f.roles.calls)
	assert.False(t, result.Identity.IsAdmin)
}

func TestCallbackRepeatLoginUpdatesInPlace(t *testing.T) {
	f := newExchangerFixture(t)
	f.roles.admins["80351110224678912"] = true

	first, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
	require.NoError(t, err)

	f.roles.admins["80351110224678912"] = false
	f.discord.profile["global_name"] = "Nelly Renamed"
	f.exchanger.now = func() time.Time { return first.Identity.LastLogin.Add(time.Hour) }

	second, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
	require.NoError(t, err)

	assert.Equal(t, first.Identity.ID, second.Identity.ID)
	assert.Equal(t, first.Identity.CreatedAt, second.Identity.CreatedAt)
	assert.Equal(t, "Nelly Renamed", second.Identity.Username)
	assert.False(t, second.Identity.IsAdmin)
	assert.True(t, second.Identity.LastLogin.After(first.Identity.LastLogin))

	stored, err := f.identities.GetByDiscordID(context.Background(), "80351110224678912")
	require.NoError(t, err)
	assert.Equal(t, first.Identity.ID, stored.ID)
	assert.False(t, stored.IsAdmin)
}

func TestCallbackFailures(t *testing.T) {
	t.Run("token exchange rejected", func(t *testing.T) {
		f := newExchangerFixture(t)
		f.discord.tokenStatus = http.StatusBadRequest

		_, err := f.exchanger.Callback(context.Background(), "bad-code", f.authorize(t))
		requireFlowError(t, err, StateExchangingToken, ErrTokenExchangeFailed)
		assert.Zero(t, f.roles.calls)
	})

	t.Run("profile fetch rejected", func(t *testing.T) {
		f := newExchangerFixture(t)
		f.discord.profileStatus = http.StatusUnauthorized

		_, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
		requireFlowError(t, err, StateFetchingProfile, ErrProfileFetchFailed)

		_, getErr := f.identities.GetByDiscordID(context.Background(), "80351110224678912")
		assert.Error(t, getErr)
	})

	t.Run("profile without id", func(t *testing.T) {
		f := newExchangerFixture(t)
		f.discord.profile = map[string]any{"username": "ghost"}

		_, err := f.exchanger.Callback(context.Background(), "code", f.authorize(t))
		requireFlowError(t, err, StateFetchingProfile, ErrProfileFetchFailed)
	})

	t.Run("missing code", func(t *testing.T) {
		f := newExchangerFixture(t)
		_, err := f.exchanger.Callback(context.Background(), "", f.authorize(t))
		requireFlowError(t, err, StateAwaitingCode, ErrMissingCode)
	})

	t.Run("unknown state", func(t *testing.T) {
		f := newExchangerFixture(t)
		_, err := f.exchanger.Callback(context.Background(), "code", "forged")
		requireFlowError(t, err, StateAwaitingCode, ErrInvalidState)
		assert.Empty(t, f.discord.gotCode)
	})

	t.Run("state is single use", func(t *testing.T) {
		f := newExchangerFixture(t)
		state := f.authorize(t)
		_, err := f.exchanger.Callback(context.Background(), "code", state)
		require.NoError(t, err)

		_, err = f.exchanger.Callback(context.Background(), "code", state)
		requireFlowError(t, err, StateAwaitingCode, ErrInvalidState)
	})
}

func TestDisabledExchanger(t *testing.T) {
	e := NewExchanger(config.DiscordConfig{}, newMemoryStates(), nil, memory.NewDiscordIdentityRepository(),
		auth.NewTokenManager("s"), zap.NewNop(), nil)
	assert.False(t, e.Enabled())

	_, err := e.AuthorizeURL(context.Background())
	assert.ErrorIs(t, err, ErrOAuthDisabled)
	_, err = e.Callback(context.Background(), "code", "state")
	assert.ErrorIs(t, err, ErrOAuthDisabled)
}
