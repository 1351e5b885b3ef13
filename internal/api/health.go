package api

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	ServiceName    = "flowcraft"
	ServiceVersion = "v0.1.0"

	checkTimeout = 2 * time.Second
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

func NewHealthChecker(checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: ServiceName, Version: ServiceVersion}))
	if err != nil {
		return nil, errors.Wrap(err, "create health checker")
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "register health check %q", check.Name)
		}
	}

	return &healthChecker{
		health: h,
	}, nil
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}

// Pinger is satisfied by the postgres pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

func PostgresCheck(p Pinger) health.Config {
	return health.Config{
		Name:    "postgres",
		Timeout: checkTimeout,
		Check:   p.Ping,
	}
}

// RedisCheck reports a failing cache without failing the whole service.
func RedisCheck(ping func(ctx context.Context) error) health.Config {
	return health.Config{
		Name:      "redis",
		Timeout:   checkTimeout,
		SkipOnErr: true,
		Check:     ping,
	}
}
