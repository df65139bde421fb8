package task

import (
	"gitee.com/taoJie_1/trendyol-agent/service/user"
)

type Manager struct {
	questionService user.QuestionService
	scheduleService user.ScheduleService
}

// NewManager 创建一个新的任务管理器
func NewManager(questions user.QuestionService, schedule user.ScheduleService) *Manager {
	return &Manager{
		questionService: questions,
		scheduleService: schedule,
	}
}
