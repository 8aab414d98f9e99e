package notification

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DeliveryLogRepository keeps an operational trail of verified
// deliveries per Rocketr order, useful when the processor retries the
// same notification in bursts. Best effort only.
type DeliveryLogRepository interface {
	Record(ctx context.Context, rocketrOrderID string, payload []byte) error
}

type redisDeliveryLogRepository struct {
	logger *logrus.Logger
	rc     *goredis.Client
	ttl    time.Duration
}

func NewDeliveryLogRepository(logger *logrus.Logger, rc *goredis.Client, ttl time.Duration) DeliveryLogRepository {
	return &redisDeliveryLogRepository{
		logger: logger,
		rc:     rc,
		ttl:    ttl,
	}
}

// Record implements DeliveryLogRepository.
func (r *redisDeliveryLogRepository) Record(ctx context.Context, rocketrOrderID string, payload []byte) error {
	key := fmt.Sprintf("rocketr-ipn:delivery:%s", rocketrOrderID)

	pipe := r.rc.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return err
	}

	return nil
}
