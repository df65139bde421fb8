package task

import (
	"gitee.com/taoJie_1/trendyol-agent/global"
)

// SyncHistory 按配置的回溯天数同步远端历史问题
// 每晚定时执行一次, 也可通过命令行参数手动触发
func (m *Manager) SyncHistory() error {
	count, err := m.questionService.SyncHistory(global.Config.Answer.HistorySyncDays)
	if err != nil {
		return err
	}
	global.Log.Infof("历史问题同步完成, 共对账 %d 条", count)
	return nil
}
