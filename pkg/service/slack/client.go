package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	// DefaultCacheTTL is the default TTL of user lookups
	DefaultCacheTTL = 5 * time.Minute

	errUserNotFound = "user_not_found"
)

// cacheEntry holds a cached lookup result with expiration
type cacheEntry struct {
	exists    bool
	expiresAt time.Time
}

// Directory resolves assignees against the members of one Slack workspace.
// User IDs are Slack member IDs; the tenant is not consulted.
type Directory struct {
	api      *slack.Client
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[types.UserID]cacheEntry
}

var _ interfaces.UserDirectory = (*Directory)(nil)

// Option is a functional option for Directory configuration
type Option func(*directoryConfig)

type directoryConfig struct {
	cacheTTL time.Duration
	apiURL   string
}

// WithCacheTTL sets the TTL of cached lookups
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *directoryConfig) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *directoryConfig) {
		c.apiURL = url
	}
}

// New creates a Slack directory with the provided bot token
func New(token string, opts ...Option) (*Directory, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	cfg := &directoryConfig{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []slack.Option
	if cfg.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Directory{
		api:      slack.New(token, clientOpts...),
		cacheTTL: cfg.cacheTTL,
		cache:    make(map[types.UserID]cacheEntry),
	}, nil
}

// Exists reports whether userID is an active human member of the workspace
func (d *Directory) Exists(ctx context.Context, _ types.TenantID, userID types.UserID) (bool, error) {
	now := time.Now()

	d.mu.RLock()
	entry, ok := d.cache[userID]
	d.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.exists, nil
	}

	user, err := d.api.GetUserInfoContext(ctx, string(userID))
	var exists bool
	switch {
	case err == nil:
		exists = !user.Deleted && !user.IsBot
	case err.Error() == errUserNotFound:
		exists = false
	default:
		return false, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	d.mu.Lock()
	d.cache[userID] = cacheEntry{
		exists:    exists,
		expiresAt: now.Add(d.cacheTTL),
	}
	d.mu.Unlock()

	return exists, nil
}
