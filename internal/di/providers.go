package di

import (
	"time"

	"github.com/hobbang/studyhub/config"
	"github.com/hobbang/studyhub/internal/account"
	"github.com/hobbang/studyhub/internal/cache"
	"github.com/hobbang/studyhub/internal/email"
	"github.com/hobbang/studyhub/internal/sessions"
)

func ProvideTokenGenerator() account.TokenGenerator {
	return account.UUIDTokenGenerator{}
}

func ProvidePasswordHasher() account.PasswordHasher {
	return account.NewBcryptHasher()
}

func ProvideSender(cfg *config.Config) (*email.Sender, error) {
	return email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.BaseURL)
}

// ProvideCountCache returns the Redis-backed counter when REDIS_ADDR is set
// and a noop otherwise, so small deployments do not need Redis.
func ProvideCountCache(cfg *config.Config) account.CountCache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	return cache.NewVerifiedCount(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 30*time.Second)
}

func ProvideSessionManager(cfg *config.Config) *sessions.Manager {
	return sessions.NewManager(cfg.JWTSecret, cfg.SessionTTL)
}
