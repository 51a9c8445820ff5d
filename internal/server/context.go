package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/config"
	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/theme"
)

// EventService is the calendar access the web UI and the MCP tools need.
// *calendar.Client implements it.
type EventService interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error)
	GetEvent(ctx context.Context, eventID string) (*calendar.Event, error)
	CreateEvent(ctx context.Context, in calendar.EventInput) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, eventID string, in calendar.EventInput) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventServiceFactory builds an EventService authenticated by ts.
type EventServiceFactory func(ctx context.Context, ts oauth2.TokenSource) (EventService, error)

// ProfileFetcher loads the signed-in user's profile.
type ProfileFetcher func(ctx context.Context, ts oauth2.TokenSource) (*google.Profile, error)

// Option customizes a ServerContext.
type Option func(*ServerContext)

// WithTokenProvider sets where account tokens are read from. Defaults to
// the OS keyring.
func WithTokenProvider(p google.TokenProvider) Option {
	return func(sc *ServerContext) { sc.tokens = p }
}

// WithOAuthConfig replaces the OAuth client built from the Google
// settings.
func WithOAuthConfig(conf *oauth2.Config) Option {
	return func(sc *ServerContext) {
		if conf != nil {
			sc.oauthConfig = conf
		}
	}
}

// WithEventServiceFactory replaces the Google Calendar client factory.
func WithEventServiceFactory(f EventServiceFactory) Option {
	return func(sc *ServerContext) { sc.newEvents = f }
}

// WithProfileFetcher replaces the userinfo lookup.
func WithProfileFetcher(f ProfileFetcher) Option {
	return func(sc *ServerContext) { sc.fetchProfile = f }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithClock sets the function used as "now" for today highlighting.
func WithClock(now func() time.Time) Option {
	return func(sc *ServerContext) {
		if now != nil {
			sc.now = now
		}
	}
}

// ServerContext holds the dependencies shared by the web UI and the MCP
// server.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	cfg          *config.Config
	oauthConfig  *oauth2.Config
	theme        theme.Theme
	tokens       google.TokenProvider
	newEvents    EventServiceFactory
	fetchProfile ProfileFetcher
	accounts     map[string]EventService // Maps account name to calendar client
	metrics      *instrumentation.Metrics
	logger       *slog.Logger
	now          func() time.Time
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, cfg *config.Config, opts ...Option) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		cfg:         cfg,
		oauthConfig: google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.RedirectURL()),
		theme:       theme.Derive(cfg.Theme.SourceColor),
		accounts:    make(map[string]EventService),
		metrics:     &instrumentation.Metrics{},
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.tokens == nil {
		sc.tokens = google.NewKeyringTokenProvider(google.KeyringService)
	}
	if sc.newEvents == nil {
		sc.newEvents = sc.calendarClient
	}
	if sc.fetchProfile == nil {
		sc.fetchProfile = func(ctx context.Context, ts oauth2.TokenSource) (*google.Profile, error) {
			return google.FetchProfile(ctx, option.WithTokenSource(ts))
		}
	}
	return sc, nil
}

// calendarClient is the default EventServiceFactory.
func (sc *ServerContext) calendarClient(ctx context.Context, ts oauth2.TokenSource) (EventService, error) {
	c, err := calendar.NewClient(ctx, sc.cfg.Google.CalendarID, option.WithTokenSource(ts))
	if err != nil {
		return nil, err
	}
	c.SetMetrics(sc.metrics)
	c.SetLogger(logging.NewSlogAdapter(sc.logger))
	return c, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

func (sc *ServerContext) OAuthConfig() *oauth2.Config {
	return sc.oauthConfig
}

// Theme returns the theme derived from the configured source color.
func (sc *ServerContext) Theme() theme.Theme {
	return sc.theme
}

func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Now returns the current time as seen by the grid.
func (sc *ServerContext) Now() time.Time {
	return sc.now()
}

// Renderer returns a grid renderer for the configured week start.
func (sc *ServerContext) Renderer() *grid.Renderer {
	r := grid.NewRenderer(sc.cfg.WeekStartDay())
	r.Now = sc.now
	return r
}

// RenderGrid renders state with r (the configured renderer when nil)
// inside a grid.render span and counts the render for surface.
func (sc *ServerContext) RenderGrid(ctx context.Context, r *grid.Renderer, surface string, state grid.ViewState) grid.Layout {
	if r == nil {
		r = sc.Renderer()
	}
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithGrid(state.View.OrDefault().Days(), state.Reference.Format("2006-01-02")).
		Build()
	ctx, span := instrumentation.StartSpan(ctx, "grid.render", attrs...)
	defer span.End()

	layout := r.Render(state)
	sc.metrics.RecordGridRender(ctx, surface, layout.View.Days())
	return layout
}

// TokenProvider returns where account tokens are read from.
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	return sc.tokens
}

// DefaultView is the view used when a request names none.
func (sc *ServerContext) DefaultView() grid.View {
	return sc.cfg.View()
}

// EventServiceForToken builds an uncached EventService for ts. Web
// sessions keep the result for their lifetime.
func (sc *ServerContext) EventServiceForToken(ctx context.Context, ts oauth2.TokenSource) (EventService, error) {
	return sc.newEvents(ctx, ts)
}

// FetchProfile loads the profile of the user ts belongs to.
func (sc *ServerContext) FetchProfile(ctx context.Context, ts oauth2.TokenSource) (*google.Profile, error) {
	return sc.fetchProfile(ctx, ts)
}

// EventServiceForAccount returns the EventService for a stored account.
// Creates and caches the client if it doesn't exist yet.
func (sc *ServerContext) EventServiceForAccount(account string) (EventService, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if svc, ok := sc.accounts[account]; ok {
		return svc, nil
	}

	ts, err := google.TokenSource(sc.ctx, sc.oauthConfig, sc.tokens, account)
	if err != nil {
		return nil, fmt.Errorf("%w\n\n%s", err, google.GetAuthenticationErrorMessage(account))
	}
	svc, err := sc.newEvents(sc.ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client for account %s: %w", account, err)
	}

	sc.accounts[account] = svc
	return svc, nil
}

// SetEventServiceForAccount sets the EventService for a specific account
func (sc *ServerContext) SetEventServiceForAccount(account string, svc EventService) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.accounts[account] = svc
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
