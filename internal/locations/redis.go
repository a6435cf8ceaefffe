package locations

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
)

// RedisSource keeps courier fixes in Redis: GEOADD under a single geo key for
// radius queries, plus a per-courier meta hash with the raw decimal strings.
type RedisSource struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

func NewRedisSource(addr, password, key string) *RedisSource {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisSource{client: c, key: key, ctx: context.Background()}
}

func (r *RedisSource) Upsert(loc models.MotoboyLocation) {
	if loc.Recorded.IsZero() {
		loc.Recorded = time.Now()
	}
	lat, okLat := geo.ParseDecimal(loc.Latitude)
	lng, okLng := geo.ParseDecimal(loc.Longitude)
	if okLat && okLng {
		_, _ = r.client.GeoAdd(r.ctx, r.key, &redis.GeoLocation{Longitude: lng, Latitude: lat, Name: loc.MotoboyID}).Result()
	}
	_ = r.client.HSet(r.ctx, metaKey(loc.MotoboyID), map[string]interface{}{
		"lat":      loc.Latitude,
		"lng":      loc.Longitude,
		"recorded": loc.Recorded.Format(time.RFC3339),
	}).Err()
}

func (r *RedisSource) Latest(motoboyIDs []string) map[string]models.MotoboyLocation {
	out := make(map[string]models.MotoboyLocation, len(motoboyIDs))
	for _, id := range motoboyIDs {
		m, err := r.client.HGetAll(r.ctx, metaKey(id)).Result()
		if err != nil || len(m) == 0 {
			continue
		}
		loc := models.MotoboyLocation{MotoboyID: id, Latitude: m["lat"], Longitude: m["lng"]}
		if ts, ok := m["recorded"]; ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				loc.Recorded = t
			}
		}
		out[id] = loc
	}
	return out
}

func metaKey(id string) string { return "motoboy:meta:" + id }
