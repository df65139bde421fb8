package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// 可选的Redis, 用于跨进程的周期运行锁
// 未配置时调度侧退化为进程内TryLock

const KeyPrefixCycleLock = "cycle_lock:"

type Client struct {
	rdb        *goredis.Client
	lockPrefix string
	lockExpiry time.Duration
}

func NewClient(addr, password string, db int, lockPrefix string, lockExpirySec int64) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	return &Client{
		rdb:        rdb,
		lockPrefix: lockPrefix,
		lockExpiry: time.Duration(lockExpirySec) * time.Second,
	}, nil
}

// TryLock 取得名为name的锁; 已被占用返回false
func (c *Client) TryLock(ctx context.Context, name string) (bool, error) {
	key := c.lockPrefix + KeyPrefixCycleLock + name
	return c.rdb.SetNX(ctx, key, "1", c.lockExpiry).Result()
}

func (c *Client) Unlock(ctx context.Context, name string) error {
	key := c.lockPrefix + KeyPrefixCycleLock + name
	return c.rdb.Del(ctx, key).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
