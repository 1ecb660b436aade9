package modes

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	auditbroker "github.com/Temutjin2k/qglide-admin/internal/adapter/rabbit"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/session"
	"github.com/Temutjin2k/qglide-admin/internal/service/admin"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/qglide-admin/pkg/postgres"
	"github.com/Temutjin2k/qglide-admin/pkg/rabbit"
)

// Version is reported as the trace resource version. Release builds set it
// with -ldflags "-X".
var Version = "dev"

// backend is everything both modes share: the session store, the upstream
// client, the audit publisher and the admin service on top of them.
type backend struct {
	store  session.Store
	client *qglide.Client
	admin  *admin.Service

	postgresDB *postgres.PostgreDB
	broker     *rabbit.RabbitMQ

	log logger.Logger
}

func newBackend(ctx context.Context, cfg config.Config, log logger.Logger) (_ *backend, err error) {
	const op = "modes.newBackend"

	b := &backend{log: log}
	defer func() {
		if err != nil {
			b.close(ctx)
		}
	}()

	if b.store, err = b.sessionStore(ctx, cfg); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	b.client = qglide.New(qglide.Config{
		BaseURL: cfg.API.BaseURL,
		AnonKey: cfg.API.AnonKey,
		Timeout: cfg.API.Timeout,
	}, b.store, log)

	var audit admin.AuditPublisher = admin.NopAudit{}
	if cfg.RabbitMQ.Enabled {
		b.broker, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		if err = b.broker.DeclareTopicExchange(ctx, cfg.RabbitMQ.Exchange); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		audit = auditbroker.NewAuditBroker(b.broker, cfg.RabbitMQ.Exchange, log)
	}

	b.admin = admin.NewService(b.client, b.store, audit, clock.Real(), log)
	return b, nil
}

func (b *backend) sessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	case config.SessionStorePostgres:
		db, err := postgres.New(ctx, cfg.Database.Pool())
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		b.postgresDB = db

		store := session.NewPostgresStore(db.Pool, cfg.Session.Key)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare session table: %w", err)
		}
		return store, nil
	default:
		return session.NewFileStore(cfg.Session.FilePath, cfg.Session.Key), nil
	}
}

func (b *backend) close(ctx context.Context) {
	if b.broker != nil {
		if err := b.broker.Close(ctx); err != nil {
			b.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}
	if b.postgresDB != nil && b.postgresDB.Pool != nil {
		b.postgresDB.Pool.Close()
	}
}
