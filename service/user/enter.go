package user

import (
	"gitee.com/taoJie_1/trendyol-agent/dao"
	"gitee.com/taoJie_1/trendyol-agent/global"
)

type ServiceGroup struct {
	QuestionService  QuestionService
	ScheduleService  ScheduleService
	DashboardService DashboardService
}

func NewServiceGroup() ServiceGroup {
	questions := NewQuestionService(&dao.App.QuestionDb, global.TrendyolService, global.AnswerGenerator)
	return ServiceGroup{
		QuestionService:  questions,
		ScheduleService:  NewScheduleService(questions, &dao.App.SettingsDb, &dao.App.JobLogDb),
		DashboardService: NewDashboardService(&dao.App.QuestionDb, &dao.App.JobLogDb),
	}
}
