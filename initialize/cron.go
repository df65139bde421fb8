package initialize

import (
	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/task"
	"github.com/robfig/cron/v3"
)

// timerStart 启动系统级维护定时器
// 业务侧的自动回答触发器由调度服务自行管理, 不在这里注册
func (i *Initializer) timerStart(taskManager *task.Manager) error {
	i.cron = cron.New([]cron.Option{
		cron.WithLocation(global.Tz),
	}...)

	if err := i.startCronJob(taskManager.CleanUpLogs, "0 3 * * *"); err != nil {
		return err
	}

	if err := i.startCronJob(taskManager.SyncHistory, "30 2 * * *"); err != nil {
		return err
	}

	i.cron.Start() //已含协程
	global.Log.Infoln("定时器启动成功")
	return nil
}

func (i *Initializer) timerStop() {
	if i.cron == nil {
		global.Log.Warnln("定时器未启动")
		return
	}
	i.cron.Stop()
	global.Log.Infoln("定时器停止成功")
}

// 启动一个新的定时任务
func (i *Initializer) startCronJob(job func() error, schedule string) error {
	_, err := i.cron.AddFunc(schedule, func() {
		if err := job(); err != nil {
			global.Log.Errorf("定时任务执行失败: %v", err)
		}
	})
	return err
}
