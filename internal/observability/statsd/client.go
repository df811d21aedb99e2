// Package statsd emits console metrics using the DogStatsD line protocol.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink receives auth and API metrics. Implementations must be safe for
// concurrent use.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// DefaultPrefix namespaces console metrics when no prefix is configured.
const DefaultPrefix = "console"

const dialTimeout = 5 * time.Second

// Config describes how to reach a StatsD agent.
type Config struct {
	Enabled bool
	// Address is host:port of the agent's UDP listener.
	Address    string
	Prefix     string
	GlobalTags map[string]string
	Logger     *slog.Logger
}

// Client writes one UDP datagram per metric. Write errors are logged at
// debug level and never reach the caller.
type Client struct {
	prefix string
	// global holds the cleaned Config.GlobalTags.
	global map[string]string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// NewClient dials the agent. With Enabled unset or an empty address it
// returns a client that drops every metric.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		prefix: cleanName(cfg.Prefix),
		global: cleanTags(cfg.GlobalTags),
		logger: logger.With("component", "statsd"),
	}
	if c.prefix == "" {
		c.prefix = DefaultPrefix
	}

	addr := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || addr == "" {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	c.conn = conn
	return c, nil
}

// Enabled reports whether metrics leave the process.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Count adds value to a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Timing records a duration in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the socket. Later metrics are dropped.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line, ok := c.line(name, value, kind, tags)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write(line); err != nil {
		c.logger.Debug("statsd write failed", "metric", name, "error", err)
	}
}

// line renders "<prefix>.<name>:<value>|<kind>|#k:v,...". Local tags
// override global tags with the same key.
func (c *Client) line(name, value, kind string, tags map[string]string) ([]byte, bool) {
	metric := cleanName(name)
	if metric == "" {
		return nil, false
	}

	merged := c.global
	if len(tags) > 0 {
		merged = maps.Clone(c.global)
		if merged == nil {
			merged = make(map[string]string, len(tags))
		}
		maps.Copy(merged, cleanTags(tags))
	}

	var b strings.Builder
	b.WriteString(c.prefix)
	b.WriteByte('.')
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)
	for i, k := range slices.Sorted(maps.Keys(merged)) {
		if i == 0 {
			b.WriteString("|#")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return []byte(b.String()), true
}

var (
	nameReplacer     = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_")
	tagValueReplacer = strings.NewReplacer(",", "_", "|", "_")
)

// cleanName replaces characters the line protocol reserves and collapses
// empty dotted segments.
func cleanName(name string) string {
	parts := strings.Split(nameReplacer.Replace(strings.TrimSpace(name)), ".")
	return strings.Join(slices.DeleteFunc(parts, func(s string) bool { return s == "" }), ".")
}

// cleanTags trims keys and values and drops empty keys. Separators in values
// would split the tag list, so they are replaced.
func cleanTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = tagValueReplacer.Replace(strings.TrimSpace(v))
	}
	return out
}
