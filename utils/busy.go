package utils

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// The advice pipeline runs one sequential chain per user and provides no
// internal mutual exclusion, so callers hold a per-user busy flag while a run
// is in flight. Redis SETNX gives cross-instance exclusivity; the in-memory
// map is a single-instance fallback. The TTL guards against a crashed run
// leaving a user locked out.

var (
	busyLocal   = map[uint]time.Time{}
	busyLocalMu sync.Mutex
)

func busyKey(userID uint) string {
	return "advice:busy:" + strconv.FormatUint(uint64(userID), 10)
}

// TryAcquireBusy marks the user as having an advice run in flight. Returns
// false when a run is already pending.
func TryAcquireBusy(userID uint, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ok, err := rc.SetNX(ctx, busyKey(userID), "1", ttl).Result()
		if err == nil {
			return ok
		}
		// Redis unavailable: fall through to the local map.
	}
	busyLocalMu.Lock()
	defer busyLocalMu.Unlock()
	if exp, ok := busyLocal[userID]; ok && time.Now().Before(exp) {
		return false
	}
	busyLocal[userID] = time.Now().Add(ttl)
	return true
}

// ReleaseBusy clears the in-flight flag once the run completes.
func ReleaseBusy(userID uint) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rc.Del(ctx, busyKey(userID)).Err()
	}
	busyLocalMu.Lock()
	delete(busyLocal, userID)
	busyLocalMu.Unlock()
}
