package cache

import (
	"context"
	"fmt"
	"strconv"

	apperrors "go-gin-event-booking/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// EventAvailabilityInfo Redis 中的活動名額快照
type EventAvailabilityInfo struct {
	Capacity       int
	ConfirmedSeats int
	UnitPrice      float64
}

// AvailableSeats 剩餘名額 = 容量 − 已確認座位
func (i EventAvailabilityInfo) AvailableSeats() int {
	return i.Capacity - i.ConfirmedSeats
}

// AvailabilityCache 活動名額的讀取快取
// 只服務查詢端；admission 的名額檢查永遠打資料庫，DB 是唯一事實來源
type AvailabilityCache interface {
	// 預熱：活動發布時寫入容量、已確認座位、單價
	WarmUp(ctx context.Context, eventID int, capacity int, confirmedSeats int, unitPrice float64) error
	// 獲取：讀取活動名額快照
	Get(ctx context.Context, eventID int) (EventAvailabilityInfo, error)
	// 調整：確認/取消時增減已確認座位 (使用Lua腳本確保原子性，key 不存在時不動作)
	AddConfirmedSeats(ctx context.Context, eventID int, delta int) error
	// 失效：活動取消/結束/刪除時移除
	Invalidate(ctx context.Context, eventID int) error
}

type RedisAvailabilityCacheImpl struct {
	client *redis.Client
}

func NewRedisAvailabilityCache(client *redis.Client) AvailabilityCache {
	return &RedisAvailabilityCacheImpl{
		client: client,
	}
}

func (c *RedisAvailabilityCacheImpl) getKey(eventID int) string {
	return fmt.Sprintf("event:%d:availability", eventID)
}

func (c *RedisAvailabilityCacheImpl) WarmUp(ctx context.Context, eventID int, capacity int, confirmedSeats int, unitPrice float64) error {
	key := c.getKey(eventID)
	return c.client.HSet(ctx, key, map[string]interface{}{
		"capacity":  capacity,
		"confirmed": confirmedSeats,
		"price":     unitPrice,
	}).Err()
}

func (c *RedisAvailabilityCacheImpl) Get(ctx context.Context, eventID int) (EventAvailabilityInfo, error) {
	key := c.getKey(eventID)
	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return EventAvailabilityInfo{}, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return EventAvailabilityInfo{}, apperrors.ErrEventNotFound
	}

	capacity, err := strconv.Atoi(result["capacity"])
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid capacity: %v", err)
	}

	confirmed, err := strconv.Atoi(result["confirmed"])
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid confirmed seats: %v", err)
	}

	price, err := strconv.ParseFloat(result["price"], 64)
	if err != nil {
		return EventAvailabilityInfo{}, fmt.Errorf("invalid price: %v", err)
	}

	return EventAvailabilityInfo{
		Capacity:       capacity,
		ConfirmedSeats: confirmed,
		UnitPrice:      price,
	}, nil
}

func (c *RedisAvailabilityCacheImpl) AddConfirmedSeats(ctx context.Context, eventID int, delta int) error {
	key := c.getKey(eventID)

	// key 不存在時不建立不完整的 hash，下一次 WarmUp 會帶回正確值
	script := `
		local key = KEYS[1]
		local delta = tonumber(ARGV[1])

		if redis.call('EXISTS', key) == 0 then
			return 0
		end

		redis.call('HINCRBY', key, 'confirmed', delta)
		return 1
	`

	return c.client.Eval(ctx, script, []string{key}, delta).Err()
}

func (c *RedisAvailabilityCacheImpl) Invalidate(ctx context.Context, eventID int) error {
	key := c.getKey(eventID)
	return c.client.Del(ctx, key).Err()
}
