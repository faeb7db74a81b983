package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	awsclient "mergington-activities/internal/common/aws"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/database"
	"mergington-activities/internal/events"
	"mergington-activities/internal/server"
)

const (
	connectRetries = 5
	connectDelay   = time.Second
)

// backends holds the optional event sinks and their readiness checks.
type backends struct {
	sinks   []events.Sink
	checks  []server.Check
	closers []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func connectBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rdb.Ping(ctx); err != nil {
				_ = rdb.Close()
				return err
			}
			return nil
		}, connectRetries, connectDelay, log, "Redis connection")
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, rdb.Close)
		b.sinks = append(b.sinks, events.NewRedisSink(rdb.Client, cfg.Database.Redis))
		b.checks = append(b.checks, server.Check{Name: "redis", Check: rdb.Ping})
		log.Info("Redis connected successfully")
	}

	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			return nil
		}, connectRetries, connectDelay, log, "PostgreSQL connection")
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pg.Close)

		audit := events.NewPostgresAuditSink(pg)
		if err := audit.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.sinks = append(b.sinks, audit)
		b.checks = append(b.checks, server.Check{Name: "postgres", Check: pg.Ping})
		log.Info("PostgreSQL connected successfully")
	}

	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, connectRetries, connectDelay, log, "Elasticsearch connection")
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sinks = append(b.sinks, events.NewElasticsearchSink(es.Client, cfg.Database.Elasticsearch.Index))
		b.checks = append(b.checks, server.Check{Name: "elasticsearch", Check: es.Ping})
		log.Info("Elasticsearch connected successfully")
	}

	region := cfg.Notifications.AWS.Region
	if cfg.Notifications.Email.Enabled {
		sesClient, err := awsclient.NewSESClient(ctx, region)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sinks = append(b.sinks, events.NewEmailSink(sesClient, cfg.Notifications.Email.FromEmail))
		log.Info("SES email notifications enabled", zap.String("region", region))
	}
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, region)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sinks = append(b.sinks, events.NewSNSSink(snsClient, cfg.Notifications.SNS.TopicARN))
		log.Info("SNS notifications enabled", zap.String("topic", cfg.Notifications.SNS.TopicARN))
	}

	return b, nil
}
