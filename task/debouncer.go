package task

import (
	"sync"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
)

var (
	scheduleReloadTimer *time.Timer
	scheduleReloadMutex sync.Mutex
)

// DebounceScheduleReload 为 ScheduleReloader 提供防抖调用功能。
// 配置文件热更新可能连续触发多次, 每次调用都会重置定时器。
func (m *Manager) DebounceScheduleReload(delay time.Duration) {
	scheduleReloadMutex.Lock()
	defer scheduleReloadMutex.Unlock()

	if scheduleReloadTimer != nil {
		scheduleReloadTimer.Stop()
	}

	scheduleReloadTimer = time.AfterFunc(delay, func() {
		global.Log.Info("触发经防抖处理的调度重载任务...")
		if err := m.ScheduleReloader(); err != nil {
			global.Log.Errorf("执行经防抖处理的调度重载任务失败: %v", err)
		}
	})
	global.Log.Infof("调度重载任务已调度在 %v 后执行", delay)
}
