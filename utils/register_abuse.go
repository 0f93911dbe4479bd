package utils

import (
	"context"
	"time"

	"github.com/ecotrack/ecotrack/config"
)

// Registration abuse limits: a short per-IP cooldown between attempts, a
// per-IP daily cap, and a temporary ban flag. All counters live in Redis and
// fail-open when it is unreachable.

func regKey(parts ...string) string {
	key := "reg"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// RegistrationCooldownTry enforces a short cooldown between attempts per IP.
func RegistrationCooldownTry(ip string) bool {
	cfg := config.Get()
	sec := cfg.RegisterAttemptCooldownSec
	if sec <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	ok, err := cli.SetNX(ctx, regKey("cooldown", ip), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		return true
	}
	return ok
}

// RegistrationDailyLimitCheck reports whether the IP is still under its daily cap.
func RegistrationDailyLimitCheck(ip string) bool {
	cfg := config.Get()
	limit := cfg.RegisterMaxPerIPPerDay
	if limit <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	day := time.Now().Format("20060102")
	n, err := cli.Get(ctx, regKey("daily", day, ip)).Int()
	if err != nil {
		return true
	}
	return n < limit
}

// RegistrationDailyIncrement bumps the per-IP daily counter after a successful registration.
func RegistrationDailyIncrement(ip string) {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	day := time.Now().Format("20060102")
	key := regKey("daily", day, ip)
	if n, err := cli.Incr(ctx, key).Result(); err == nil && n == 1 {
		_ = cli.Expire(ctx, key, 24*time.Hour).Err()
	}
}

// RegistrationIsBanned reports whether the IP carries a temporary ban.
func RegistrationIsBanned(ip string) bool {
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := cli.Exists(ctx, regKey("ban", ip)).Result()
	return err == nil && n > 0
}

// RegistrationBan places a temporary ban on the IP.
func RegistrationBan(ip string) {
	cfg := config.Get()
	minutes := cfg.RegisterTempBanMinutes
	if minutes <= 0 {
		minutes = 60
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = cli.Set(ctx, regKey("ban", ip), "1", time.Duration(minutes)*time.Minute).Err()
}
