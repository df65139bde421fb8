package db

import "strings"

// SettingsConfig 自动回答调度配置, 全库仅一条生效记录
type SettingsConfig struct {
	BaseField
	AutomaticAnswer bool   `db:"automatic_answer" json:"automatic_answer" info:"自动回答总开关"`
	Weekdays        string `db:"weekdays" json:"weekdays" info:"逗号分隔的星期名"`
	StartTime       string `db:"start_time" json:"start_time" info:"HH:MM"`
	EndTime         string `db:"end_time" json:"end_time" info:"HH:MM"`
	TimeZone        string `db:"time_zone" json:"time_zone" info:"IANA时区"`
}

func (SettingsConfig) TableName() string {
	return `settings_config`
}

func (s *SettingsConfig) WeekdayList() []string {
	if s.Weekdays == "" {
		return nil
	}
	parts := strings.Split(s.Weekdays, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Schedulable 开关开启时, 必须有星期与起止时间才允许排程
func (s *SettingsConfig) Schedulable() bool {
	return s.AutomaticAnswer && len(s.WeekdayList()) > 0 && s.StartTime != "" && s.EndTime != ""
}
