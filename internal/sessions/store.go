package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/seoule/salon/internal/cache"
	"github.com/seoule/salon/internal/domain/session"
	"github.com/seoule/salon/internal/observability"
)

type Repository interface {
	Insert(ctx context.Context, userID, token string, expiresAt time.Time) (session.Session, error)
	FindValid(ctx context.Context, token string, now time.Time) (session.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

type Config struct {
	// Cache is optional. When nil every lookup goes to the repository.
	Cache    cache.Store
	CacheTTL time.Duration
	Prom     *observability.Prom
	Logger   *slog.Logger
}

// Store persists sessions keyed by their token.
type Store struct {
	repo     Repository
	issuer   TokenIssuer
	cache    cache.Store
	cacheTTL time.Duration
	prom     *observability.Prom
	log      *slog.Logger
	now      func() time.Time
}

func NewStore(repo Repository, issuer TokenIssuer, cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Store{
		repo:     repo,
		issuer:   issuer,
		cache:    cfg.Cache,
		cacheTTL: ttl,
		prom:     cfg.Prom,
		log:      logger,
		now:      time.Now,
	}
}

// WithClock returns a copy of the store reading time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	cp := *s
	cp.now = now
	return &cp
}

// Create issues a fresh token for userID and records the session.
func (s *Store) Create(ctx context.Context, userID string) (string, time.Time, error) {
	token, expiresAt, err := s.issuer.Issue(userID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	sess, err := s.repo.Insert(ctx, userID, token, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert session: %w", err)
	}

	s.prom.ObserveSessionCreated()
	s.remember(ctx, sess)

	return token, expiresAt, nil
}

// Lookup returns the session for token while it is unexpired. Expired rows are left for PurgeExpired.
func (s *Store) Lookup(ctx context.Context, token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, session.ErrNotFound
	}

	now := s.now()

	if sess, ok := s.recall(ctx, token); ok {
		if sess.Valid(now) {
			return sess, nil
		}

		s.forget(ctx, token)
		return session.Session{}, session.ErrNotFound
	}

	sess, err := s.repo.FindValid(ctx, token, now)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("find session: %w", err)
	}

	s.remember(ctx, sess)
	return sess, nil
}

// Delete removes the session for token. Unknown tokens are not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	s.forget(ctx, token)

	if err := s.repo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// a concurrent lookup may have re-cached the row before the delete landed
	s.forget(ctx, token)
	return nil
}

// PurgeExpired deletes every session whose expiry is not after now.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}

	s.prom.ObserveSessionsPurged(n)
	return n, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Store) recall(ctx context.Context, token string) (session.Session, bool) {
	if s.cache == nil {
		return session.Session{}, false
	}

	b, ok, err := s.cache.Get(ctx, cacheKey(token))
	if err != nil {
		s.prom.ObserveSessionCache("error")
		s.log.WarnContext(ctx, "session cache get failed", "err", err)
		return session.Session{}, false
	}

	if !ok {
		s.prom.ObserveSessionCache("miss")
		return session.Session{}, false
	}

	var sess session.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		s.prom.ObserveSessionCache("error")
		s.forget(ctx, token)
		return session.Session{}, false
	}
	sess.Token = token

	s.prom.ObserveSessionCache("hit")
	return sess, true
}

func (s *Store) remember(ctx context.Context, sess session.Session) {
	if s.cache == nil {
		return
	}

	ttl := s.cacheTTL
	if left := sess.ExpiresAt.Sub(s.now()); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return
	}

	key := cacheKey(sess.Token)

	// the raw token never leaves the process; entries are keyed by its digest
	sess.Token = ""

	b, err := json.Marshal(sess)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, b, ttl); err != nil {
		s.log.WarnContext(ctx, "session cache set failed", "err", err)
	}
}

func (s *Store) forget(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cacheKey(token)); err != nil {
		s.log.WarnContext(ctx, "session cache delete failed", "err", err)
	}
}
