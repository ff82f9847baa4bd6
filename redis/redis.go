package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionStore keeps session tokens as expiring keys pointing at a user id.
type SessionStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

var _ scheduler.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionStore{
		redisClient: client,
		keyPrefix:   "sessions:",
		ttl:         ttl,
	}
}

// Create issues a new token for userID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.redisClient.Set(ctx, s.keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "error storing session")
	}

	return token, nil
}

// Lookup returns the user id behind token and slides its expiry forward.
// Unknown or expired tokens are reported as ErrUnauthorized.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.Wrap(scheduler.ErrUnauthorized, "missing session token")
	}

	key := s.keyPrefix + token
	userID, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", errors.Wrap(scheduler.ErrUnauthorized, "session expired or unknown")
	} else if err != nil {
		return "", errors.Wrap(err, "error fetching session")
	}

	if err := s.redisClient.Expire(ctx, key, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "error refreshing session")
	}

	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.redisClient.Del(ctx, s.keyPrefix+token).Err()
}

// ConflictStore records the audited conflicts of every event in a single
// hash, one JSON list of event ids per field.
type ConflictStore struct {
	redisClient *redis.Client
	storageKey  string
}

var _ scheduler.ConflictStore = (*ConflictStore)(nil)

func NewConflictStore(client *redis.Client) *ConflictStore {
	return &ConflictStore{
		redisClient: client,
		storageKey:  "event_conflicts",
	}
}

// SetConflicts replaces the conflicts recorded for eventID. An empty list
// removes the entry.
func (s *ConflictStore) SetConflicts(ctx context.Context, eventID string, conflictIDs []string) error {
	if len(conflictIDs) == 0 {
		return s.ClearConflicts(ctx, eventID)
	}

	jsonVal, err := json.Marshal(conflictIDs)
	if err != nil {
		return err
	}

	return s.redisClient.HSet(ctx, s.storageKey, eventID, string(jsonVal)).Err()
}

// GetConflicts returns the ids recorded for eventID, or ErrNotFound when the
// event has never been audited with conflicts.
func (s *ConflictStore) GetConflicts(ctx context.Context, eventID string) ([]string, error) {
	val, err := s.redisClient.HGet(ctx, s.storageKey, eventID).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(scheduler.ErrNotFound, "conflicts for event %s", eventID)
	} else if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		return nil, errors.Wrapf(err, "error decoding conflicts for event %s", eventID)
	}

	return ids, nil
}

func (s *ConflictStore) ClearConflicts(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	return s.redisClient.HDel(ctx, s.storageKey, eventIDs...).Err()
}
