package user

import (
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
)

// StatsStore 看板统计查询
type StatsStore interface {
	Stats() (*common.DashboardStats, error)
}

// JobLogReader 任务日志查询
type JobLogReader interface {
	Latest() (*db.JobLog, error)
	List(limit int) ([]db.JobLog, error)
}

type DashboardService interface {
	// 汇总问题统计与最近一次任务执行状态
	GetStats() (*common.DashboardStats, error)
}

type dashboardService struct {
	stats   StatsStore
	jobLogs JobLogReader
}

func NewDashboardService(stats StatsStore, jobLogs JobLogReader) DashboardService {
	return &dashboardService{
		stats:   stats,
		jobLogs: jobLogs,
	}
}

func (s *dashboardService) GetStats() (*common.DashboardStats, error) {
	stats, err := s.stats.Stats()
	if err != nil {
		return nil, err
	}

	latest, err := s.jobLogs.Latest()
	if err != nil {
		return nil, err
	}
	if latest != nil {
		stats.LastJobRunningAt = latest.RunningAt
		stats.LastJobState = latest.State
	}
	return stats, nil
}
