package usecase

import (
	"context"
	"sort"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// HealthCheck probes one dependency (database, redis).
type HealthCheck func(ctx context.Context) error

type healthUsecase struct {
	checks map[string]HealthCheck
}

func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks}
}

// Check runs every probe with a short timeout; ok is false when any probe fails.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	ok := true

	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := u.checks[name](probeCtx)
		cancel()
		if err != nil {
			status[name] = "down"
			ok = false
			continue
		}
		status[name] = "up"
	}
	if !ok {
		status["status"] = "degraded"
	}
	return status, ok
}
