package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

var ErrNotFound = errors.New("not found")

const (
	observationKeyPrefix = "observation:"
	devicesKey           = "devices"
	rootCausesKey        = "root_causes"
	lastUpdateKey        = "last_update"
)

// DAOObservations keeps the latest observation of every device in Redis,
// plus the set of devices whose latest observation is a root cause.
type DAOObservations struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewDAOObservations creates a DAO whose keys expire after ttl.
func NewDAOObservations(redisClient *redis.Client, ttl time.Duration) *DAOObservations {
	return &DAOObservations{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func observationKey(equipmentID string) string {
	return observationKeyPrefix + equipmentID
}

// AddObservation stores row as the latest observation of its device and
// updates the root-cause index. Rows must arrive in time order.
func (dao *DAOObservations) AddObservation(ctx context.Context, row telemetrics.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal observation %s: %w", row.EquipmentID, err)
	}

	_, err = dao.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, observationKey(row.EquipmentID), data, dao.ttl)
		pipe.SAdd(ctx, devicesKey, row.EquipmentID)
		pipe.Expire(ctx, devicesKey, dao.ttl)
		if row.IsRootCause {
			pipe.ZAdd(ctx, rootCausesKey, redis.Z{Score: float64(row.Timestamp.Unix()), Member: row.EquipmentID})
			pipe.Expire(ctx, rootCausesKey, dao.ttl)
		} else {
			pipe.ZRem(ctx, rootCausesKey, row.EquipmentID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store observation %s: %w", row.EquipmentID, err)
	}
	return nil
}

// GetLatest returns the latest observation of a device.
func (dao *DAOObservations) GetLatest(ctx context.Context, equipmentID string) (*telemetrics.Row, error) {
	data, err := dao.redisClient.Get(ctx, observationKey(equipmentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("observation %s: %w", equipmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get observation %s: %w", equipmentID, err)
	}

	var row telemetrics.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode observation %s: %w", equipmentID, err)
	}
	return &row, nil
}

// ListDevices returns every device with a stored observation, sorted.
func (dao *DAOObservations) ListDevices(ctx context.Context) ([]string, error) {
	devices, err := dao.redisClient.SMembers(ctx, devicesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	slices.Sort(devices)
	return devices, nil
}

// RootCauses returns the latest observations labeled as root cause, oldest
// first. Devices whose observation already expired are skipped.
func (dao *DAOObservations) RootCauses(ctx context.Context) ([]telemetrics.Row, error) {
	ids, err := dao.redisClient.ZRange(ctx, rootCausesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list root causes: %w", err)
	}
	if len(ids) == 0 {
		return []telemetrics.Row{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = observationKey(id)
	}
	values, err := dao.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get root causes: %w", err)
	}

	rows := make([]telemetrics.Row, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var row telemetrics.Row
		if err := json.Unmarshal([]byte(s), &row); err != nil {
			return nil, fmt.Errorf("decode observation %s: %w", ids[i], err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SetLastUpdate records the timestamp of the newest ingested observation.
func (dao *DAOObservations) SetLastUpdate(ctx context.Context, ts time.Time) error {
	return dao.redisClient.Set(ctx, lastUpdateKey, ts.UTC().Format(time.RFC3339), dao.ttl).Err()
}

// GetLastUpdate returns ErrNotFound before the first ingestion.
func (dao *DAOObservations) GetLastUpdate(ctx context.Context) (time.Time, error) {
	s, err := dao.redisClient.Get(ctx, lastUpdateKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, fmt.Errorf("last update: %w", ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last update: %w", err)
	}
	return time.Parse(time.RFC3339, s)
}
