package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the records service.
type Server struct {
	Addr           string
	DatabaseURL    string
	RedisURL       string
	JWTSigningKey  string
	AdminToken     string
	MFACodeTTL     time.Duration
	UnmaskDailyMax int
	AuditBuffer    int
	TrustedProxies []string
}

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultMFACodeTTL     = 5 * time.Minute
	DefaultUnmaskDailyMax = 5
	DefaultAuditBuffer    = 256
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BIG_OFFICE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	mfaTTL := DefaultMFACodeTTL
	if v := os.Getenv("MFA_CODE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			mfaTTL = d
		}
	}

	dailyMax := DefaultUnmaskDailyMax
	if v := os.Getenv("UNMASK_DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dailyMax = n
		}
	}

	auditBuffer := DefaultAuditBuffer
	if v := os.Getenv("AUDIT_BUFFER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			auditBuffer = n
		}
	}

	var trustedProxies []string
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trustedProxies = append(trustedProxies, p)
			}
		}
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSigningKey:  jwtSigningKey,
		AdminToken:     os.Getenv("ADMIN_API_TOKEN"),
		MFACodeTTL:     mfaTTL,
		UnmaskDailyMax: dailyMax,
		AuditBuffer:    auditBuffer,
		TrustedProxies: trustedProxies,
	}
}
