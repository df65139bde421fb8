package db

// RateLimitConfig 每个外部端点的限速策略记录
// 仅供管理界面查看/覆盖, 队列自身按固定间隔执行
type RateLimitConfig struct {
	BaseField
	Endpoint          string `db:"endpoint" json:"endpoint"`
	RequestsPerMinute int64  `db:"requests_per_minute" json:"requests_per_minute"`
	Enabled           bool   `db:"enabled" json:"enabled"`
}

func (RateLimitConfig) TableName() string {
	return `rate_limit_config`
}
