package remote

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	metaSuffix    = ":meta"
	metaGzip      = "1"
	scanBatchSize = 100

	defaultConnectTimeout = 3 * time.Second
	defaultCommandTimeout = 2 * time.Second
	defaultMaxRetries     = 3
)

// Config tunes the Redis store. Zero values take the defaults above;
// KeyPrefix defaults to "fc:".
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int

	KeyPrefix      string
	ConnectTimeout time.Duration // handshake bound (dial + ping)
	CommandTimeout time.Duration // per-command read/write bound
	MaxRetries     int           // transient command errors, capped backoff
}

// Redis is the go-redis backed Store. The client is created lazily on first
// use; see conn for the shared-handle semantics.
type Redis struct {
	cfg  Config
	conn *conn[*goredis.Client]
}

var _ Store = (*Redis)(nil)

func NewRedis(cfg Config) *Redis {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 6379
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "fc:"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = defaultCommandTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	s := &Redis{cfg: cfg}
	s.conn = newConn(s.dialClient, func(c *goredis.Client) error { return c.Close() })
	return s
}

// dialClient creates the client and verifies the handshake with a bounded
// timeout. Deliberately decoupled from any caller context: the handle is
// process-shared, so one caller's cancellation must not abort the dial
// everyone is awaiting.
func (s *Redis) dialClient() (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)),
		Username:     s.cfg.Username,
		Password:     s.cfg.Password,
		DB:           s.cfg.DB,
		DialTimeout:  s.cfg.ConnectTimeout,
		ReadTimeout:  s.cfg.CommandTimeout,
		WriteTimeout: s.cfg.CommandTimeout,
		MaxRetries:   s.cfg.MaxRetries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (s *Redis) key(k string) string  { return s.cfg.KeyPrefix + k }
func (s *Redis) meta(k string) string { return s.cfg.KeyPrefix + k + metaSuffix }

func (s *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	rdb, err := s.conn.get()
	if err != nil {
		return Entry{}, false, err
	}

	var valCmd, metaCmd *goredis.StringCmd
	_, err = rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		valCmd = p.Get(ctx, s.key(key))
		metaCmd = p.Get(ctx, s.meta(key))
		return nil
	})
	if err != nil && err != goredis.Nil {
		return Entry{}, false, err
	}
	if valCmd.Err() == goredis.Nil {
		return Entry{}, false, nil
	}
	if valCmd.Err() != nil {
		return Entry{}, false, valCmd.Err()
	}

	b, _ := valCmd.Bytes()
	return Entry{
		Payload:    b,
		Compressed: metaCmd.Err() == nil && metaCmd.Val() == metaGzip,
	}, true, nil
}

func (s *Redis) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	rdb, err := s.conn.get()
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	_, err = rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.key(key), entry.Payload, ttl)
		if entry.Compressed {
			p.Set(ctx, s.meta(key), metaGzip, ttl)
		} else {
			// clear a stale flag from a previous compressed write
			p.Del(ctx, s.meta(key))
		}
		return nil
	})
	return err
}

func (s *Redis) GetMany(ctx context.Context, keys []string) (map[string]Entry, error) {
	out := make(map[string]Entry, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rdb, err := s.conn.get()
	if err != nil {
		return nil, err
	}

	valCmds := make([]*goredis.StringCmd, len(keys))
	metaCmds := make([]*goredis.StringCmd, len(keys))
	_, err = rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, k := range keys {
			valCmds[i] = p.Get(ctx, s.key(k))
			metaCmds[i] = p.Get(ctx, s.meta(k))
		}
		return nil
	})
	if err != nil && err != goredis.Nil {
		return nil, err
	}

	for i, k := range keys {
		if valCmds[i].Err() != nil {
			continue // miss or per-key fault; absent either way
		}
		b, _ := valCmds[i].Bytes()
		out[k] = Entry{
			Payload:    b,
			Compressed: metaCmds[i].Err() == nil && metaCmds[i].Val() == metaGzip,
		}
	}
	return out, nil
}

func (s *Redis) SetMany(ctx context.Context, items map[string]Entry, ttl time.Duration) error {
	if len(items) == 0 {
		return nil
	}
	rdb, err := s.conn.get()
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	_, err = rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for k, e := range items {
			p.Set(ctx, s.key(k), e.Payload, ttl)
			if e.Compressed {
				p.Set(ctx, s.meta(k), metaGzip, ttl)
			} else {
				p.Del(ctx, s.meta(k))
			}
		}
		return nil
	})
	return err
}

func (s *Redis) Del(ctx context.Context, key string) error {
	rdb, err := s.conn.get()
	if err != nil {
		return err
	}
	return rdb.Del(ctx, s.key(key), s.meta(key)).Err()
}

func (s *Redis) DelPattern(ctx context.Context, pattern string) ([]string, error) {
	rdb, err := s.conn.get()
	if err != nil {
		return nil, err
	}

	// cursor-based scan; never KEYS on a shared keyspace
	var matched []string
	iter := rdb.Scan(ctx, 0, s.key(pattern), scanBatchSize).Iterator()
	for iter.Next(ctx) {
		matched = append(matched, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	_, err = rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for _, k := range matched {
			p.Del(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	deleted := make([]string, 0, len(matched))
	for _, k := range matched {
		name := strings.TrimPrefix(k, s.cfg.KeyPrefix)
		if strings.HasSuffix(name, metaSuffix) {
			continue // companion entries don't exist in the local tier
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

func (s *Redis) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	rdb, err := s.conn.get()
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, s.key(key), value, ttl).Result()
}

func (s *Redis) Close() error {
	return s.conn.close()
}
