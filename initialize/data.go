package initialize

import (
	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/task"
)

// loadData 加载业务所需数据
// 进程启动时读取库中保存的调度配置, 开关开启则立即恢复触发器
func (i *Initializer) loadData(taskManager *task.Manager) {
	if err := taskManager.ScheduleReloader(); err != nil {
		global.Log.Errorln("启动时应用调度配置失败, 自动回答不会运行:", err)
	}
}
