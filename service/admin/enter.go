package admin

import (
	"gitee.com/taoJie_1/trendyol-agent/dao"
)

type ServiceGroup struct {
	RateLimitService RateLimitService
	JobLogService    JobLogService
}

func NewServiceGroup() ServiceGroup {
	return ServiceGroup{
		RateLimitService: NewRateLimitService(&dao.App.RateLimitDb),
		JobLogService:    NewJobLogService(&dao.App.JobLogDb),
	}
}
