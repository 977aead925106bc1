package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/bus"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/graph"
)

// --- Optional Redis cache for profile follow counts ---
// Counting followers is the hottest read on busy profiles; cache the pair of
// counts briefly and drop the key whenever a toggle touches the user.

var statsCacheTTL = 30 * time.Second

var (
	statsRedisOnce sync.Once
	statsRedis     *redis.Client
)

// statsRedisClient returns the shared cache client, or nil when REDIS_ADDR
// is not configured. Resolved lazily so .env loading has already happened.
func statsRedisClient() *redis.Client {
	statsRedisOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			return
		}
		statsRedis = redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	})
	return statsRedis
}

// CacheReady reports whether the optional stats cache is reachable. With no
// REDIS_ADDR configured there is nothing to check.
func CacheReady(ctx context.Context) error {
	rc := statsRedisClient()
	if rc == nil {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	return rc.Ping(cctx).Err()
}

type profileStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

func cachedCounts(ctx context.Context, rc *redis.Client, username string) (profileStats, bool) {
	if rc == nil {
		return profileStats{}, false
	}
	cctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	raw, err := rc.Get(cctx, "profile:stats:"+username).Bytes()
	if err != nil {
		return profileStats{}, false
	}
	var st profileStats
	if err := json.Unmarshal(raw, &st); err != nil {
		return profileStats{}, false
	}
	return st, true
}

func storeCounts(ctx context.Context, rc *redis.Client, username string, st profileStats) {
	if rc == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	raw, _ := json.Marshal(st)
	_ = rc.Set(cctx, "profile:stats:"+username, raw, statsCacheTTL).Err()
}

func dropCounts(ctx context.Context, rc *redis.Client, usernames ...string) {
	if rc == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	for _, name := range usernames {
		_ = rc.Del(cctx, "profile:stats:"+name).Err()
	}
}

// GetProfile handles GET /api/profile/:username (authenticated). Profiles
// are not browsable anonymously.
func GetProfile(c *gin.Context) {
	p := currentPrincipal(c)
	username := c.Param("username")
	if err := authz.Authorize(p, authz.OpProfileRead, authz.Target{TargetUsername: username}); err != nil {
		recordDenial("profile.read", err.Error())
		respondError(c, err)
		return
	}

	var user database.User
	err := database.DB.Get(&user, `SELECT id, username, hashed_password, created_at, updated_at
	        FROM users WHERE username=$1`, username)
	if err != nil {
		respondError(c, err)
		return
	}

	rc := statsRedisClient()
	st, ok := cachedCounts(c.Request.Context(), rc, user.Username)
	if !ok {
		followers, following, err := graph.Counts(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		st = profileStats{Followers: followers, Following: following}
		storeCounts(c.Request.Context(), rc, user.Username, st)
	}

	isFollowing := false
	if p.ID != user.ID {
		isFollowing, err = graph.IsFollowing(c.Request.Context(), p.ID, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Followers:   st.Followers,
		Following:   st.Following,
		IsFollowing: isFollowing,
		JoinedAt:    user.CreatedAt,
	})
}

// ToggleFollow handles POST /api/follow/:username. One call flips the edge;
// two consecutive calls restore the original state.
func ToggleFollow(c *gin.Context) {
	p := currentPrincipal(c)
	target := c.Param("username")
	if err := authz.Authorize(p, authz.OpFollowToggle, authz.Target{TargetUsername: target}); err != nil {
		recordDenial("follow.toggle", err.Error())
		respondError(c, err)
		return
	}

	result, err := graph.ToggleFollow(c.Request.Context(), p.ID, p.Username, target)
	if err != nil {
		respondError(c, err)
		return
	}

	followToggleTotal.WithLabelValues(string(result)).Inc()
	// Both profiles changed: the follower's following count and the
	// followee's follower count.
	dropCounts(c.Request.Context(), statsRedisClient(), p.Username, target)

	_ = EventBus.Publish(c.Request.Context(), bus.Event{
		Topic:   bus.TopicFollowToggled,
		Actor:   p.Username,
		Subject: target,
		Payload: json.RawMessage(`{"state":"` + string(result) + `"}`),
	})

	c.JSON(http.StatusOK, gin.H{"status": string(result)})
}

// ListFollowers handles GET /api/profile/:username/followers
func ListFollowers(c *gin.Context) {
	followListing(c, graph.Followers)
}

// ListFollowing handles GET /api/profile/:username/following
func ListFollowing(c *gin.Context) {
	followListing(c, graph.Following)
}

func followListing(c *gin.Context, fetch func(context.Context, uuid.UUID) ([]string, error)) {
	p := currentPrincipal(c)
	username := c.Param("username")
	if err := authz.Authorize(p, authz.OpProfileRead, authz.Target{TargetUsername: username}); err != nil {
		respondError(c, err)
		return
	}

	var userID uuid.UUID
	err := database.DB.Get(&userID, `SELECT id FROM users WHERE username=$1`, username)
	if err != nil {
		respondError(c, err)
		return
	}

	names, err := fetch(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usernames": names, "count": len(names)})
}
