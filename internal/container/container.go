package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/config"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

// app-level container to share constructed components across packages.
// Router wires modules from these singletons; optional infra stays nil
// when it is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	sessions    repository.SessionRepository
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }

func SetStore(s repository.Store)                { store = s }
func GetStore() repository.Store                 { return store }
func SetSessions(s repository.SessionRepository) { sessions = s }
func GetSessions() repository.SessionRepository  { return sessions }

func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }

// Reset clears every singleton. Tests use it between router builds.
func Reset() {
	cfg, logger, store, sessions = nil, nil, nil, nil
	pgPool, redisClient, gcsClient, esClient = nil, nil, nil, nil
}
