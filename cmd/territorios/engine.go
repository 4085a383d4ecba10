package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-farma/internal/application/territory"
	"github.com/jhoicas/crm-farma/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-farma/pkg/config"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

// engine casos de uso montados sobre la BD configurada.
type engine struct {
	pool        *pgxpool.Pool
	bulk        *territory.BulkAssignmentUseCase
	province    *territory.ProvinceAssignmentUseCase
	assignments *territory.AssignmentUseCase
}

// newEngine conecta, detecta el esquema de marcas y construye los casos de uso.
// Los logs van a stderr para no mezclarse con el JSON de salida.
func newEngine(ctx context.Context) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.App.LogLevel)

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	caps, err := postgres.ProbeBrandCapabilities(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	tcfg := territory.Config{DefaultPriority: cfg.Territory.DefaultPriority, Location: cfg.Territory.Location()}
	bulk := territory.NewBulkAssignmentUseCase(
		postgres.NewTxRunner(pool), postgres.NewCommercialRepository(pool), caps, tcfg, nil, log,
	)
	return &engine{
		pool:        pool,
		bulk:        bulk,
		province:    territory.NewProvinceAssignmentUseCase(bulk),
		assignments: territory.NewAssignmentUseCase(postgres.NewAssignmentRepository(pool), tcfg),
	}, nil
}

func (e *engine) Close() { e.pool.Close() }
