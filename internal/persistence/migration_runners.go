package persistence

import (
	"context"

	"github.com/zhulik/pal"
)

type MigrationUpRunner struct {
	Migrator *Migrator
}

func (m *MigrationUpRunner) RunConfig() pal.RunConfig {
	return pal.RunConfig{Wait: false}
}

func (m *MigrationUpRunner) Run(ctx context.Context) error {
	return m.Migrator.Up(ctx)
}

type MigrationDownRunner struct {
	Migrator *Migrator
}

func (m *MigrationDownRunner) RunConfig() pal.RunConfig {
	return pal.RunConfig{Wait: false}
}

func (m *MigrationDownRunner) Run(ctx context.Context) error {
	return m.Migrator.Down(ctx)
}
