package admin

import (
	"errors"

	"gitee.com/taoJie_1/trendyol-agent/model/db"
)

// RateLimitStore 限速策略记录的持久化操作
type RateLimitStore interface {
	Get(endpoint string) (*db.RateLimitConfig, error)
	List() ([]db.RateLimitConfig, error)
	Upsert(endpoint string, requestsPerMinute int64, enabled bool) error
}

type RateLimitService interface {
	List() ([]db.RateLimitConfig, error)
	Update(endpoint string, requestsPerMinute int64, enabled bool) error
}

type rateLimitService struct {
	store RateLimitStore
}

func NewRateLimitService(store RateLimitStore) RateLimitService {
	return &rateLimitService{store: store}
}

func (s *rateLimitService) List() ([]db.RateLimitConfig, error) {
	return s.store.List()
}

func (s *rateLimitService) Update(endpoint string, requestsPerMinute int64, enabled bool) error {
	if endpoint == "" {
		return errors.New("端点不能为空")
	}
	if requestsPerMinute <= 0 {
		return errors.New("每分钟请求数必须为正数")
	}
	return s.store.Upsert(endpoint, requestsPerMinute, enabled)
}
