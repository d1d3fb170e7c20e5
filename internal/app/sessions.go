package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"hotel_access/internal/domain"
)

// SessionService validates bearer tokens: signature and expiry first, then a
// stored session for the exact token.
type SessionService struct {
	secret   []byte
	repo     domain.SessionRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSessionService(secret string, r domain.SessionRepository, c domain.Cache, ttl time.Duration) *SessionService {
	return &SessionService{secret: []byte(secret), repo: r, cache: c, cacheTTL: ttl}
}

type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Authenticate returns the user id carried by a valid, session-backed token.
func (s *SessionService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, domain.UnauthorizedError("")
	}
	var c claims
	tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid || c.UserID <= 0 {
		return 0, domain.UnauthorizedError("")
	}

	if _, err := s.session(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.UnauthorizedError("")
		}
		return 0, err
	}
	return c.UserID, nil
}

// cachedSession is what lands in the cache: identifiers only, no token.
type cachedSession struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"userId"`
}

// session looks the token up in the store. With a positive cache TTL, hits
// are served from the cache until the entry expires; a TTL of 0 always asks
// the store, so deleted sessions stop authenticating immediately.
func (s *SessionService) session(ctx context.Context, token string) (cachedSession, error) {
	cached := s.cache != nil && s.cacheTTL > 0
	key := sessionKey(token)
	if cached {
		var cs cachedSession
		ok, err := s.cache.Get(ctx, key, &cs)
		if err != nil {
			log.Warn().Err(err).Msg("session cache read failed")
		} else if ok {
			return cs, nil
		}
	}
	sess, err := s.repo.FindSessionByToken(ctx, token)
	if err != nil {
		return cachedSession{}, err
	}
	cs := cachedSession{ID: sess.ID, UserID: sess.UserID}
	if cached {
		if err := s.cache.Set(ctx, key, cs, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Msg("session cache write failed")
		}
	}
	return cs, nil
}

// Keys hold a digest of the token, never the token itself.
func sessionKey(token string) string {
	sum := sha1.Sum([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
