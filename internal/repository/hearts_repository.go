package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HeartsRepository 保存每个用户在每个关卡答题过程中的剩余生命值。
// Redis 不可用时退化为进程内存储
type HeartsRepository struct {
	Redis *redis.Client
	TTL   time.Duration

	mu    sync.Mutex
	local map[string]string
}

func NewHeartsRepository(rdb *redis.Client, ttl time.Duration) *HeartsRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HeartsRepository{Redis: rdb, TTL: ttl, local: make(map[string]string)}
}

func heartsKey(userID, levelID uint) string {
	return fmt.Sprintf("quiz:hearts:%d:%d", userID, levelID)
}

func pageHeartsKey(userID, levelID uint, index int) string {
	return fmt.Sprintf("quiz:page_hearts:%d:%d:%d", userID, levelID, index)
}

func activeLevelKey(userID uint) string {
	return fmt.Sprintf("quiz:active_level:%d", userID)
}

// Get 返回剩余生命值，未开始答题时 ok 为 false
func (r *HeartsRepository) Get(ctx context.Context, userID, levelID uint) (int, bool, error) {
	v, ok, err := r.get(ctx, heartsKey(userID, levelID))
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt hearts value %q: %w", v, err)
	}
	return n, true, nil
}

func (r *HeartsRepository) Set(ctx context.Context, userID, levelID uint, hearts int) error {
	if hearts < 0 {
		hearts = 0
	}
	return r.set(ctx, heartsKey(userID, levelID), strconv.Itoa(hearts))
}

// lowerScript 原子地把生命值降到 min(当前, 目标)，键不存在时以 ARGV[2] 为当前值
var lowerScript = redis.NewScript(`
local cur = tonumber(ARGV[2])
local v = redis.call('GET', KEYS[1])
if v then cur = tonumber(v) end
local before = cur
local target = tonumber(ARGV[1])
if target < cur then cur = target end
if cur < 0 then cur = 0 end
redis.call('SET', KEYS[1], cur, 'PX', ARGV[3])
return {before, cur}
`)

// Lower 把生命值降到 min(当前, target)，重复调用结果不变。返回调整前后的值
func (r *HeartsRepository) Lower(ctx context.Context, userID, levelID uint, target, initial int) (int, int, error) {
	key := heartsKey(userID, levelID)
	if r.Redis == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		before := initial
		if v, ok := r.local[key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, 0, fmt.Errorf("corrupt hearts value %q: %w", v, err)
			}
			before = n
		}
		after := before
		if target < after {
			after = target
		}
		if after < 0 {
			after = 0
		}
		r.local[key] = strconv.Itoa(after)
		return before, after, nil
	}

	res, err := lowerScript.Run(ctx, r.Redis, []string{key}, target, initial, r.TTL.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected lower hearts reply %v", res)
	}
	before, _ := res[0].(int64)
	after, _ := res[1].(int64)
	return int(before), int(after), nil
}

// SetPageHearts 记录题目页下发时的生命值，判错扣除以此为基准
func (r *HeartsRepository) SetPageHearts(ctx context.Context, userID, levelID uint, index, hearts int) error {
	return r.set(ctx, pageHeartsKey(userID, levelID, index), strconv.Itoa(hearts))
}

func (r *HeartsRepository) PageHearts(ctx context.Context, userID, levelID uint, index int) (int, bool, error) {
	v, ok, err := r.get(ctx, pageHeartsKey(userID, levelID, index))
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt page hearts value %q: %w", v, err)
	}
	return n, true, nil
}

func (r *HeartsRepository) Reset(ctx context.Context, userID, levelID uint) error {
	key := heartsKey(userID, levelID)
	if r.Redis == nil {
		r.mu.Lock()
		delete(r.local, key)
		r.mu.Unlock()
		return nil
	}
	return r.Redis.Del(ctx, key).Err()
}

// SetActiveLevel 记录用户当前正在答题的关卡，供 update_hearts 使用
func (r *HeartsRepository) SetActiveLevel(ctx context.Context, userID, levelID uint) error {
	return r.set(ctx, activeLevelKey(userID), strconv.FormatUint(uint64(levelID), 10))
}

func (r *HeartsRepository) ActiveLevel(ctx context.Context, userID uint) (uint, bool, error) {
	v, ok, err := r.get(ctx, activeLevelKey(userID))
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt active level %q: %w", v, err)
	}
	return uint(id), true, nil
}

func (r *HeartsRepository) get(ctx context.Context, key string) (string, bool, error) {
	if r.Redis == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		v, ok := r.local[key]
		return v, ok, nil
	}
	v, err := r.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *HeartsRepository) set(ctx context.Context, key, value string) error {
	if r.Redis == nil {
		r.mu.Lock()
		r.local[key] = value
		r.mu.Unlock()
		return nil
	}
	return r.Redis.Set(ctx, key, value, r.TTL).Err()
}
