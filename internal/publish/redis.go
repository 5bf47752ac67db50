package publish

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

const (
	// ViewKey holds the latest rendered view as JSON
	ViewKey = "oddsboard:view:current"

	// ChangeStream receives one entry per league whose matches changed
	ChangeStream = "oddsboard.leagues.changed"

	leagueHashKeyFormat = "oddsboard:league:%s:hash" // oddsboard:league:La Liga:hash

	defaultTTL = 5 * time.Minute
)

// SnapshotReader exposes the current snapshot together with its generation
type SnapshotReader interface {
	SnapshotGeneration() (models.Snapshot, uint64)
}

// RedisPublisher mirrors every rendered view into Redis and announces leagues
// whose matches changed since the last publish
type RedisPublisher struct {
	redis    *redis.Client
	snapshot SnapshotReader
	ttl      time.Duration
	log      logrus.FieldLogger
}

// LeagueChange is a league whose match list hash differs from the cached one
type LeagueChange struct {
	League  string
	Matches int
	Hash    string
	OldHash string
}

// NewRedisPublisher creates a publisher. Cached keys expire after ttl.
func NewRedisPublisher(redisClient *redis.Client, snapshot SnapshotReader, ttl time.Duration, log logrus.FieldLogger) *RedisPublisher {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisPublisher{
		redis:    redisClient,
		snapshot: snapshot,
		ttl:      ttl,
		log:      log.WithField("component", "redis_publisher"),
	}
}

// Name implements contracts.Sink
func (p *RedisPublisher) Name() string {
	return "redis"
}

// Render implements contracts.Sink
func (p *RedisPublisher) Render(ctx context.Context, view models.BoardView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	if err := p.redis.Set(ctx, ViewKey, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set view: %w", err)
	}

	snap, generation := p.snapshot.SnapshotGeneration()
	if generation != view.Generation {
		// a newer snapshot landed; its own render publishes the changes
		p.log.WithFields(logrus.Fields{
			"view_generation":     view.Generation,
			"snapshot_generation": generation,
		}).Debug("skipping change detection for stale view")
		return nil
	}

	changes, err := p.DetectChanges(ctx, snap)
	if err != nil {
		return err
	}

	if err := p.publishChanges(ctx, snap, changes, view.RenderedAt); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	p.log.WithFields(logrus.Fields{
		"generation": view.Generation,
		"changed":    len(changes),
	}).Debug("league changes published")
	return nil
}

// DetectChanges compares each league's match hash against the cache and returns
// the leagues that are new or changed
func (p *RedisPublisher) DetectChanges(ctx context.Context, snap models.Snapshot) ([]LeagueChange, error) {
	leagues := snap.Leagues()
	if len(leagues) == 0 {
		return nil, nil
	}

	keys := make([]string, len(leagues))
	for i, league := range leagues {
		keys[i] = leagueHashKey(league)
	}

	cached, err := p.redis.MGet(ctx, keys...).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	changes := make([]LeagueChange, 0, len(leagues))
	for i, league := range leagues {
		matches := snap[league]
		hash, err := hashMatches(matches)
		if err != nil {
			return nil, err
		}

		old, _ := cached[i].(string)
		if old == hash {
			continue
		}
		changes = append(changes, LeagueChange{
			League:  league,
			Matches: len(matches),
			Hash:    hash,
			OldHash: old,
		})
	}

	return changes, nil
}

// publishChanges announces changed leagues and stores their new hashes. Hash keys
// of unchanged leagues get their TTL refreshed so they never expire between polls.
func (p *RedisPublisher) publishChanges(ctx context.Context, snap models.Snapshot, changes []LeagueChange, renderedAt time.Time) error {
	if len(snap) == 0 {
		return nil
	}

	pipe := p.redis.Pipeline()

	changed := make(map[string]bool, len(changes))
	for _, c := range changes {
		changed[c.League] = true
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: ChangeStream,
			Values: map[string]interface{}{
				"league":      c.League,
				"matches":     strconv.Itoa(c.Matches),
				"hash":        c.Hash,
				"rendered_at": renderedAt.UTC().Format(time.RFC3339),
			},
		})
		pipe.Set(ctx, leagueHashKey(c.League), c.Hash, p.ttl)
	}
	for league := range snap {
		if !changed[league] {
			pipe.Expire(ctx, leagueHashKey(league), p.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}
	return nil
}

func leagueHashKey(league string) string {
	return fmt.Sprintf(leagueHashKeyFormat, league)
}

func hashMatches(matches []models.MatchOdds) (string, error) {
	data, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
