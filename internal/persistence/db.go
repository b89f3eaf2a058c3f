package persistence

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socially/internal/config"
)

type txKey struct{}

// DB wraps the gorm connection and is the atomicity boundary for the
// interaction engine: Atomically puts the transaction handle into the
// context, repositories pick it up through Handle.
type DB struct {
	Config *config.Config

	db *gorm.DB
}

func (d *DB) Init(_ context.Context) error {
	gormDB, err := gorm.Open(postgres.Open(d.Config.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	d.db = gormDB
	return nil
}

func (d *DB) Handle(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

func (d *DB) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.Handle(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (d *DB) EstimatedCount(ctx context.Context, table string) (int64, error) {
	var count int64
	return count, d.Handle(ctx).Raw(
		`SELECT reltuples::bigint AS count
				FROM pg_class
				WHERE relname = ?`, table,
	).Scan(&count).Error
}

func (d *DB) SQLDB() (*sql.DB, error) {
	return d.db.DB()
}

func (d *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Shutdown(_ context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
