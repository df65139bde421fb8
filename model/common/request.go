package common

// ApprovalRequest 审批一条待确认问题
type ApprovalRequest struct {
	Approved     bool   `json:"approved"`
	EditedAnswer string `json:"edited_answer"`
}

// SettingsRequest 更新调度配置
type SettingsRequest struct {
	AutomaticAnswer bool     `json:"automatic_answer"`
	Weekdays        []string `json:"weekdays"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	TimeZone        string   `json:"time_zone"`
}

// RateLimitRequest 更新某端点的限速策略
type RateLimitRequest struct {
	Endpoint          string `json:"endpoint" binding:"required"`
	RequestsPerMinute int64  `json:"requests_per_minute"`
	Enabled           bool   `json:"enabled"`
}

// SyncHistoryRequest 手动触发历史同步
type SyncHistoryRequest struct {
	Days int `json:"days"`
}
