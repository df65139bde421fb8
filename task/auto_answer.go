package task

import (
	"gitee.com/taoJie_1/trendyol-agent/global"
)

// AutoAnswerOnce 手动执行一轮完整的 拉取-对账-决策-发布 循环
// 供命令行后台任务与管理接口调用, 不经过定时触发器
func (m *Manager) AutoAnswerOnce() error {
	result, err := m.questionService.RunCycle()
	if err != nil {
		return err
	}
	global.Log.Infof("手动循环完成: %s", result)
	return nil
}

// ScheduleReloader 重新加载并应用库中保存的调度配置
func (m *Manager) ScheduleReloader() error {
	return m.scheduleService.Reload()
}
