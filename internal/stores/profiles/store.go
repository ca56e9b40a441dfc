// internal/stores/profiles/store.go
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "candidate:profile:"

// Store resolves candidate profiles from Postgres with a Redis
// cache-aside layer in front. Array fields are persisted as JSON text
// columns and decoded on read; a cache miss or a corrupt cache entry
// falls through to the database.
type Store struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewStore(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "profile-store"}),
	}
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.CandidateProfile, error) {
	cacheKey := cacheKeyPrefix + id

	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.CandidateProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, education_level, major, stream, skills, sector_interests,
		       preferred_locations, residency_pin, rural_flag
		FROM candidate_profiles WHERE id = $1`, id)

	var profile models.CandidateProfile
	var major, stream, pin sql.NullString
	var skills, interests, locations []byte
	err := row.Scan(&profile.ID, &profile.Name, &profile.EducationLevel, &major, &stream,
		&skills, &interests, &locations, &pin, &profile.RuralFlag)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}

	profile.Major = major.String
	profile.Stream = stream.String
	profile.ResidencyPin = pin.String
	profile.Skills = decodeStringArray(skills)
	profile.SectorInterests = decodeStringArray(interests)
	profile.PreferredLocations = decodeStringArray(locations)

	if s.redis != nil {
		data, _ := json.Marshal(profile)
		if err := s.redis.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache profile", map[string]interface{}{
				"profileId": id,
				"error":     err.Error(),
			})
		}
	}

	return &profile, nil
}

// Invalidate drops the cached copy of a profile after an update.
func (s *Store) Invalidate(ctx context.Context, id string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKeyPrefix+id).Err()
}

func decodeStringArray(raw []byte) []string {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}
