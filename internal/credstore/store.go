// Package credstore persists the bearer token and cached user profile of each
// browser in a ports.KVStore. Entries for one browser are addressed by an
// opaque client identifier and always expire and clear together.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ticketdesk/admin-console/internal/cryptoutil"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// Well-known entry names, appended to the client identifier.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// DefaultTTL keeps credentials for seven days.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNoClient is returned when writing through credentials bound to an empty
// client identifier.
var ErrNoClient = errors.New("credentials are not bound to a client")

// Options configures a Store.
type Options struct {
	KV  ports.KVStore
	TTL time.Duration
	// Encryptor seals values at rest. Values are stored in the clear when nil.
	Encryptor cryptoutil.Encryptor
	Logger    *slog.Logger
}

// Store hands out per-client Credentials over a shared KVStore.
type Store struct {
	kv     ports.KVStore
	ttl    time.Duration
	enc    cryptoutil.Encryptor
	logger *slog.Logger
}

// New creates a Store. A non-positive TTL falls back to DefaultTTL.
func New(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: opts.KV, ttl: ttl, enc: opts.Encryptor, logger: logger.With("component", "credstore")}
}

// put writes value under key, sealed to that key when an encryptor is set.
func (s *Store) put(ctx context.Context, key, value string) error {
	if s.enc != nil {
		sealed, err := s.enc.Encrypt([]byte(value), key)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		value = sealed
	}
	return s.kv.Set(ctx, key, value, s.ttl)
}

// get reads key. A value that cannot be opened, for example after a key
// rotation, is logged and reported as missing.
func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ports.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if s.enc == nil {
		return raw, true, nil
	}
	plain, err := s.enc.Decrypt(raw, key)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable stored credential", "key", key, "error", err)
		return "", false, nil
	}
	return string(plain), true, nil
}

// Bind returns the credentials of one browser.
func (s *Store) Bind(clientID string) *Credentials {
	return &Credentials{store: s, clientID: clientID}
}

// Credentials implements ports.CredentialStore for a single client.
type Credentials struct {
	store    *Store
	clientID string
}

var _ ports.CredentialStore = (*Credentials)(nil)

// ClientID returns the identifier these credentials are bound to.
func (c *Credentials) ClientID() string { return c.clientID }

func (c *Credentials) key(name string) string {
	return entryKey(c.clientID, name)
}

// entryKey wraps the client ID in a Redis hash tag so every entry of one
// browser maps to the same cluster slot and Clear stays a single DEL.
func entryKey(clientID, name string) string {
	return "{" + clientID + "}:" + name
}

// SetToken stores token. An empty token removes the stored one.
func (c *Credentials) SetToken(ctx context.Context, token string) error {
	if c.clientID == "" {
		return ErrNoClient
	}
	if token == "" {
		return c.store.kv.Delete(ctx, c.key(TokenKey))
	}
	if err := c.store.put(ctx, c.key(TokenKey), token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Token returns the stored token, or "" when none is present.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	if c.clientID == "" {
		return "", nil
	}
	tok, _, err := c.store.get(ctx, c.key(TokenKey))
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return tok, nil
}

// SetUser caches the user profile. A nil user removes the cached one.
func (c *Credentials) SetUser(ctx context.Context, user *domainauth.User) error {
	if c.clientID == "" {
		return ErrNoClient
	}
	if user == nil {
		return c.store.kv.Delete(ctx, c.key(UserKey))
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := c.store.put(ctx, c.key(UserKey), string(data)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// User returns the cached profile. It returns nil when no token is stored,
// when nothing is cached, or when the cached data cannot be decoded.
func (c *Credentials) User(ctx context.Context) (*domainauth.User, error) {
	tok, err := c.Token(ctx)
	if err != nil || tok == "" {
		return nil, err
	}

	raw, ok, err := c.store.get(ctx, c.key(UserKey))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user domainauth.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		c.store.logger.WarnContext(ctx, "discarding unreadable cached user",
			"client_id", c.clientID, "error", err)
		return nil, nil
	}
	return &user, nil
}

// Clear removes the token and the cached profile in one store call.
func (c *Credentials) Clear(ctx context.Context) error {
	if c.clientID == "" {
		return nil
	}
	if err := c.store.kv.Delete(ctx, c.key(TokenKey), c.key(UserKey)); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
