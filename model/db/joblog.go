package db

// JobLog 一次调度执行的审计记录
// 每次触发只产生一条running记录, 且只会转移到一个终态
type JobLog struct {
	BaseField
	State     string `db:"state" json:"state"`
	Result    string `db:"result" json:"result"`
	RunningAt int64  `db:"running_at" json:"running_at"`
}

func (JobLog) TableName() string {
	return `job_logs`
}
