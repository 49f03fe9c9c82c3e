package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mesadigital/restaurante_backend/config"
)

// TenantLock obtains a short advisory lock scoped to one tenant, serializing
// operations that must not run concurrently for the same restaurant (opening
// a cash register, finalizing a counter sale). The caller must invoke the
// returned release func when done. The database unique checks inside the
// transaction remain the source of truth; the lock only narrows the race.
func TenantLock(ctx context.Context, tenantId int, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Redis optional: without it we fall back to the DB-level checks alone.
		return func() {}, nil
	}

	lockKey := fmt.Sprintf("%s:%d", lockType, tenantId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain tenant lock", lockKey, err)
		return nil, ConflictErrorf("operação em andamento, tente novamente")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining tenant lock", lockKey, err)
		return nil, err
	}

	release := func() {
		if rerr := lock.Release(context.Background()); rerr != nil && !errors.Is(rerr, redislock.ErrLockNotHeld) {
			config.LogError(logger, moduleName, functionName, "Error releasing tenant lock", lockKey, rerr)
		}
	}
	return release, nil
}
