package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/healthme/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "healthme-session||"
	tokensSetKey     = "healthme-sessions"

	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
	fieldNewUser   = "new_user"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the server side state behind an opaque session token.
type Session struct {
	Token     string
	UserID    int
	CreatedAt time.Time
}

type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) TTL() time.Duration {
	return as.ttl
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Login opens a new session for the user and returns its token.
func (as *Service) Login(ctx context.Context, userID int, createdAt time.Time) (string, error) {
	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	key := sessionKey(token)
	if err := as.redisClient.HSet(ctx, key,
		fieldUserID, userID,
		fieldCreatedAt, createdAt.Unix(),
	).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := as.redisClient.Expire(ctx, key, as.ttl).Err(); err != nil {
		return "", fmt.Errorf("set session ttl: %w", err)
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("register session token: %w", err)
	}

	return token, nil
}

// MarkNewUser sets the one-shot "just registered" flag on the session.
func (as *Service) MarkNewUser(ctx context.Context, token string) error {
	return as.redisClient.HSet(ctx, sessionKey(token), fieldNewUser, 1).Err()
}

// TakeNewUserFlag reports whether the "just registered" flag was set, and clears it.
// HDEL is atomic, so only one request can ever observe the flag.
func (as *Service) TakeNewUserFlag(ctx context.Context, token string) (bool, error) {
	removed, err := as.redisClient.HDel(ctx, sessionKey(token), fieldNewUser).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// SessionUser resolves a token to its session.
func (as *Service) SessionUser(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	values, err := as.redisClient.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || values[fieldUserID] == "" {
		return nil, ErrSessionNotFound
	}

	userID, err := strconv.Atoi(values[fieldUserID])
	if err != nil {
		return nil, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(values[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse session created at: %w", err)
	}

	createdAt := time.Unix(createdAtUnix, 0)
	if time.Since(createdAt) > as.ttl {
		return nil, ErrSessionExpired
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

func (as *Service) Logout(ctx context.Context, token string) error {
	if err := as.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("unregister session token: %w", err)
	}

	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		_, err := as.SessionUser(ctx, token)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
			toRemove = append(toRemove, token)
		default:
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
		}
	}

	for _, token := range toRemove {
		log.Tracef("=>\twill clean the session with token: %s", token)
		if err := as.Logout(ctx, token); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
		}
	}
}
