package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vmezhova/SLN-BookingEngine/pkg/types"
)

// ErrCacheMiss возвращается, когда значения в кэше нет
var ErrCacheMiss = errors.New("slots cache: miss")

// SlotsCache кэш списков доступных слотов в Redis
//
// Ключ включает мастера, дату и услугу (длительность услуги влияет на список).
// TTL короткий: кэш лишь снимает нагрузку повторных запросов виджета записи,
// а после успешного claim или отмены записи все ключи мастера на дату
// инвалидируются явно.
//
// Инвалидация ставит dirty-маркер с тем же TTL, а запись выполняется Lua-скриптом,
// который отказывается писать при живом маркере. Иначе медленный читатель,
// начавший пересчёт до claim, мог бы вернуть в Redis список со слотом,
// который уже занят. Читатель медленнее TTL маркера этим не защищён,
// но такой запрос давно отвалился бы по таймаутам HTTP-слоя.
type SlotsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// setIfClean пишет значение, только если по дню нет dirty-маркера
// Проверка и запись атомарны на стороне Redis
var setIfClean = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// New создает кэш слотов поверх подключения к Redis
func New(client *redis.Client, ttl time.Duration) *SlotsCache {
	return &SlotsCache{client: client, ttl: ttl}
}

func slotsKey(specialistID int64, date string, serviceID int64) string {
	return fmt.Sprintf("slots:%d:%s:%d", specialistID, date, serviceID)
}

func dirtyKey(specialistID int64, date string) string {
	return fmt.Sprintf("slots:dirty:%d:%s", specialistID, date)
}

// Get читает закэшированный список слотов
// Возвращает ErrCacheMiss, если ключа нет
func (c *SlotsCache) Get(ctx context.Context, specialistID int64, date string, serviceID int64) ([]types.TimeString, error) {
	raw, err := c.client.Get(ctx, slotsKey(specialistID, date, serviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slots cache: get: %w", err)
	}

	var slots []types.TimeString
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("slots cache: decode: %w", err)
	}

	return slots, nil
}

// Set сохраняет список слотов с коротким TTL
// Запись молча пропускается, пока по дню жив dirty-маркер инвалидации
func (c *SlotsCache) Set(ctx context.Context, specialistID int64, date string, serviceID int64, slots []types.TimeString) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("slots cache: encode: %w", err)
	}

	keys := []string{slotsKey(specialistID, date, serviceID), dirtyKey(specialistID, date)}
	if err := setIfClean.Run(ctx, c.client, keys, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("slots cache: set: %w", err)
	}

	return nil
}

// InvalidateDay удаляет все списки слотов мастера на дату (для всех услуг)
// и ставит dirty-маркер против записи устаревших списков читателями,
// начавшими пересчёт до инвалидации
// Вызывается после успешного claim и после отмены записи
func (c *SlotsCache) InvalidateDay(ctx context.Context, specialistID int64, date string) error {
	// Маркер ставится до удаления: скрипт записи либо успел до маркера
	// (и его запись удалится ниже), либо увидит маркер и откажется
	if err := c.client.Set(ctx, dirtyKey(specialistID, date), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("slots cache: mark dirty: %w", err)
	}

	pattern := fmt.Sprintf("slots:%d:%s:*", specialistID, date)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0, 8)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slots cache: scan: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("slots cache: del: %w", err)
	}

	return nil
}
