package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spec-kit/rp-admin-service/internal/auth"
	"github.com/spec-kit/rp-admin-service/internal/config"
	"github.com/spec-kit/rp-admin-service/internal/domain"
	"github.com/spec-kit/rp-admin-service/internal/observability"
	"github.com/spec-kit/rp-admin-service/internal/repository"
)

// FlowState names a step of the authorization-code login.
type FlowState string

const (
	StateAwaitingCode    FlowState = "awaiting_code"
	StateExchangingToken FlowState = "exchanging_token"
	StateFetchingProfile FlowState = "fetching_profile"
	StateCheckingRole    FlowState = "checking_role"
	StateUpserting       FlowState = "upserting"
	StateIssuingSession  FlowState = "issuing_session"
	StateDone            FlowState = "done"
)

var (
	ErrOAuthDisabled       = errors.New("discord login not configured")
	ErrMissingCode         = errors.New("authorization code missing")
	ErrInvalidState        = errors.New("unknown or expired oauth state")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileFetchFailed  = errors.New("profile fetch failed")
)

// FlowError reports the step at which a login failed.
type FlowError struct {
	State FlowState
	Err   error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("discord login failed while %s: %v", e.State, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// RoleChecker answers whether a Discord user holds an admin role in the
// community guild. *Bot implements it.
type RoleChecker interface {
	IsAdmin(ctx context.Context, discordUserID string) (bool, error)
}

// Profile is the subset of GET /users/@me the service keeps.
type Profile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	GlobalName    *string `json:"global_name"`
	Avatar        *string `json:"avatar"`
	Discriminator *string `json:"discriminator"`
}

// DisplayName prefers the global display name over the account username.
func (p Profile) DisplayName() string {
	if p.GlobalName != nil && *p.GlobalName != "" {
		return *p.GlobalName
	}
	return p.Username
}

// LoginResult is returned by a successful callback.
type LoginResult struct {
	Token    string
	Claims   *auth.Claims
	Identity *domain.DiscordIdentity
}

// Exchanger drives the Discord authorization-code login.
type Exchanger struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	timeout    time.Duration
	states     StateStore
	roles      RoleChecker
	identities repository.DiscordIdentityRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewExchanger wires the login flow. roles may be nil, in which case every
// Discord identity is a non-admin.
func NewExchanger(
	cfg config.DiscordConfig,
	states StateStore,
	roles RoleChecker,
	identities repository.DiscordIdentityRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Exchanger {
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	return &Exchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/oauth2/authorize",
				TokenURL:  base + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL: base,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		timeout:    cfg.Timeout(),
		states:     states,
		roles:      roles,
		identities: identities,
		tokens:     tokens,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Enabled reports whether client credentials are configured.
func (e *Exchanger) Enabled() bool {
	return e != nil && e.oauth.ClientID != ""
}

// AuthorizeURL records a fresh state value and returns the Discord consent URL.
func (e *Exchanger) AuthorizeURL(ctx context.Context) (string, error) {
	if !e.Enabled() {
		return "", ErrOAuthDisabled
	}
	state := newState()
	if err := e.states.Put(ctx, stateKey(state), "1", StateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return e.oauth.AuthCodeURL(state), nil
}

type flow struct {
	state  FlowState
	logger *zap.Logger
}

func (f *flow) enter(s FlowState) {
	f.state = s
	f.logger.Debug("discord login", zap.String("state", string(s)))
}

func (f *flow) fail(err error) error {
	return &FlowError{State: f.state, Err: err}
}

// Callback completes the login for an authorization code. Failures are
// returned as *FlowError.
func (e *Exchanger) Callback(ctx context.Context, code, state string) (result *LoginResult, err error) {
	f := &flow{state: StateAwaitingCode, logger: e.logger}
	defer func() {
		if err != nil {
			e.metrics.RecordOAuthLogin(string(f.state))
			e.logger.Info("discord login failed", zap.String("state", string(f.state)), zap.Error(err))
			return
		}
		e.metrics.RecordOAuthLogin("success")
	}()

	if !e.Enabled() {
		return nil, f.fail(ErrOAuthDisabled)
	}
	if code == "" {
		return nil, f.fail(ErrMissingCode)
	}
	if err := e.consumeState(ctx, state); err != nil {
		return nil, f.fail(err)
	}

	f.enter(StateExchangingToken)
	token, err := e.exchange(ctx, code)
	if err != nil {
		return nil, f.fail(fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err))
	}

	f.enter(StateFetchingProfile)
	profile, err := e.fetchProfile(ctx, token)
	if err != nil {
		return nil, f.fail(fmt.Errorf("%w: %w", ErrProfileFetchFailed, err))
	}

	f.enter(StateCheckingRole)
	isAdmin := e.checkRole(ctx, profile.ID)

	f.enter(StateUpserting)
	identity, err := e.upsert(ctx, profile, isAdmin)
	if err != nil {
		return nil, f.fail(err)
	}

	f.enter(StateIssuingSession)
	signed, claims, err := e.tokens.Issue(auth.Claims{
		Kind:             domain.PrincipalKindDiscord,
		IsAdmin:          identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: identity.DiscordID},
	})
	if err != nil {
		return nil, f.fail(err)
	}

	f.enter(StateDone)
	return &LoginResult{Token: signed, Claims: claims, Identity: identity}, nil
}

func (e *Exchanger) consumeState(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}
	if _, err := e.states.Take(ctx, stateKey(state)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

func (e *Exchanger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Exchanger) exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.oauth.Exchange(ctx, code)
}

func (e *Exchanger) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.apiBaseURL+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("profile has no id")
	}
	return &profile, nil
}

// checkRole never fails the login: any lookup error counts as "not admin".
func (e *Exchanger) checkRole(ctx context.Context, discordUserID string) bool {
	if e.roles == nil {
		return false
	}
	isAdmin, err := e.roles.IsAdmin(ctx, discordUserID)
	if err != nil {
		e.logger.Warn("discord role check failed; treating user as non-admin",
			zap.String("discord_id", discordUserID), zap.Error(err))
		return false
	}
	return isAdmin
}

func (e *Exchanger) upsert(ctx context.Context, profile *Profile, isAdmin bool) (*domain.DiscordIdentity, error) {
	now := e.now()
	existing, err := e.identities.GetByDiscordID(ctx, profile.ID)
	switch {
	case err == nil:
		return e.refresh(ctx, existing, profile, isAdmin, now)
	case !repository.IsNotFound(err):
		return nil, err
	}

	identity := &domain.DiscordIdentity{
		DiscordID:     profile.ID,
		Username:      profile.DisplayName(),
		Avatar:        profile.Avatar,
		Discriminator: profile.Discriminator,
		IsAdmin:       isAdmin,
		LastLogin:     now,
	}
	err = e.identities.Create(ctx, identity)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent first login created the row; update it instead.
		existing, getErr := e.identities.GetByDiscordID(ctx, profile.ID)
		if getErr != nil {
			return nil, getErr
		}
		return e.refresh(ctx, existing, profile, isAdmin, now)
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func (e *Exchanger) refresh(ctx context.Context, identity *domain.DiscordIdentity, profile *Profile, isAdmin bool, now time.Time) (*domain.DiscordIdentity, error) {
	identity.Username = profile.DisplayName()
	identity.Avatar = profile.Avatar
	identity.Discriminator = profile.Discriminator
	identity.IsAdmin = isAdmin
	identity.LastLogin = now
	if err := e.identities.Update(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}
