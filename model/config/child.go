package config

type Database struct {
	Type          string `json:"type" mapstructure:"type" yaml:"type"`
	SqlitePath    string `json:"sqlite_path" mapstructure:"sqlite_path" yaml:"sqlite_path"`
	MysqlHost     string `json:"mysql_host" mapstructure:"mysql_host" yaml:"mysql_host"`
	MysqlPort     string `json:"mysql_port" mapstructure:"mysql_port" yaml:"mysql_port"`
	MysqlDbname   string `json:"mysql_dbname" mapstructure:"mysql_dbname" yaml:"mysql_dbname"`
	MysqlUsername string `json:"mysql_username" mapstructure:"mysql_username" yaml:"mysql_username"`
	MysqlPassword string `json:"mysql_password" mapstructure:"mysql_password" yaml:"mysql_password"`
}

type Redis struct {
	Addr       string `json:"addr" mapstructure:"addr" yaml:"addr"`
	Password   string `json:"password" mapstructure:"password" yaml:"password"`
	DB         int64  `json:"db" mapstructure:"db" yaml:"db"`
	LockPrefix string `json:"lock_prefix" mapstructure:"lock_prefix" yaml:"lock_prefix"`
	LockExpiry int64  `json:"lock_expiry" mapstructure:"lock_expiry" yaml:"lock_expiry"`
}

type Trendyol struct {
	Url       string `json:"url" mapstructure:"url" yaml:"url"`
	SellerId  string `json:"seller_id" mapstructure:"seller_id" yaml:"seller_id"`
	ApiKey    string `json:"api_key" mapstructure:"api_key" yaml:"api_key"`
	ApiSecret string `json:"api_secret" mapstructure:"api_secret" yaml:"api_secret"`
	UserAgent string `json:"user_agent" mapstructure:"user_agent" yaml:"user_agent"`
	PageSize  int64  `json:"page_size" mapstructure:"page_size" yaml:"page_size"`
}

type Chatbase struct {
	Url     string `json:"url" mapstructure:"url" yaml:"url"`
	AgentId string `json:"agent_id" mapstructure:"agent_id" yaml:"agent_id"`
	Auth    string `json:"auth" mapstructure:"auth" yaml:"auth"`
}

type Llm struct {
	Url     string `json:"url" mapstructure:"url" yaml:"url"`
	Model   string `json:"model" mapstructure:"model" yaml:"model"`
	Auth    string `json:"auth" mapstructure:"auth" yaml:"auth"`
	Timeout int64  `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
}

// Answer 自动回答策略
type Answer struct {
	// 生成后端: chatbase 或 openai
	Generator string `json:"generator" mapstructure:"generator" yaml:"generator"`
	// 拼在用户问题前的提示词导语
	PromptPreamble string `json:"prompt_preamble" mapstructure:"prompt_preamble" yaml:"prompt_preamble"`
	// 低置信度答案的哨兵子串, 命中则转人工审批
	UnknownMarkers []string `json:"unknown_markers" mapstructure:"unknown_markers" yaml:"unknown_markers"`
	// 外呼队列的固定间隔(毫秒)
	QueueIntervalMs int64 `json:"queue_interval_ms" mapstructure:"queue_interval_ms" yaml:"queue_interval_ms"`
	// 外呼请求的重试次数与初始重试延迟(毫秒)
	Retries      int64 `json:"retries" mapstructure:"retries" yaml:"retries"`
	RetryDelayMs int64 `json:"retry_delay_ms" mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	// 历史同步回溯的天数
	HistorySyncDays int64 `json:"history_sync_days" mapstructure:"history_sync_days" yaml:"history_sync_days"`
}
