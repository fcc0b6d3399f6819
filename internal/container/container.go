package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/config"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Everything here is initialized once at boot and read-only afterwards; the
// store pool and signing secret in particular are process-wide by design.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	sessionManager *helpers.SessionManager
	rabbitPub      *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)  { cfg = c }
func GetConfig() *config.Config   { return cfg }
func SetLogger(l *logrus.Logger)  { logger = l }
func GetLogger() *logrus.Logger   { return logger }
func SetPGPool(p *pgxpool.Pool)   { pgPool = p }
func GetPGPool() *pgxpool.Pool    { return pgPool }
func SetRedis(r *redis.Client)    { redisClient = r }
func GetRedis() *redis.Client     { return redisClient }
func SetGCS(s *storage.Client)    { gcsClient = s }
func GetGCS() *storage.Client     { return gcsClient }

func SetSessions(m *helpers.SessionManager) { sessionManager = m }
func GetSessions() *helpers.SessionManager {
	if sessionManager != nil {
		return sessionManager
	}
	return helpers.DefaultSessions()
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
