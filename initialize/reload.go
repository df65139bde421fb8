package initialize

import (
	"context"
	"reflect"
	"strings"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"gitee.com/taoJie_1/trendyol-agent/service/admin"
	"gitee.com/taoJie_1/trendyol-agent/service/user"
	"gitee.com/taoJie_1/trendyol-agent/task"
	"golang.org/x/sync/errgroup"
)

// HandleConfigChange 检测配置变化并安全地、并发地重载相关服务
func (i *Initializer) HandleConfigChange(oldConfig, newConfig *config.Config) {
	i.reloadLock.Lock()
	defer i.reloadLock.Unlock()

	var restartNeeded []string

	// --- 1. 检查不可热重载的高风险配置 ---
	if !reflect.DeepEqual(oldConfig.Database, newConfig.Database) {
		restartNeeded = append(restartNeeded, "database")
	}
	if oldConfig.GinAddr != newConfig.GinAddr {
		restartNeeded = append(restartNeeded, "gin_addr")
	}
	if oldConfig.GinLogPath != newConfig.GinLogPath || oldConfig.RunLogPath != newConfig.RunLogPath {
		restartNeeded = append(restartNeeded, "log_path")
	}

	// --- 2. 并发执行可安全热重载的任务 ---
	eg, _ := errgroup.WithContext(context.Background())

	// 时区重载
	if oldConfig.Tz != newConfig.Tz {
		eg.Go(func() error {
			if err := i.InitTz(); err != nil {
				global.Log.Errorf("热重载时区失败: %v", err)
				return err
			}
			return nil
		})
	}

	// Redis客户端重载
	if !reflect.DeepEqual(oldConfig.Redis, newConfig.Redis) {
		eg.Go(func() error {
			if err := i.redisClose(); err != nil {
				global.Log.Warnf("关闭旧Redis客户端失败: %v", err)
			}
			global.RedisClient = nil
			i.initRedis()
			return nil
		})
	}

	// 外呼链路重载: 队列间隔、重试策略、凭证或生成后端发生变化时整体重建
	outboundChanged := !reflect.DeepEqual(oldConfig.Trendyol, newConfig.Trendyol) ||
		!reflect.DeepEqual(oldConfig.Chatbase, newConfig.Chatbase) ||
		!reflect.DeepEqual(oldConfig.Llm, newConfig.Llm) ||
		!reflect.DeepEqual(oldConfig.Answer, newConfig.Answer)
	if outboundChanged {
		eg.Go(func() error {
			// 先撤销旧触发器, 避免旧服务组在重建后继续触发
			if old := service.Service.UserServiceGroup.ScheduleService; old != nil {
				old.Stop()
			}
			i.queueStop()
			if err := i.initOutbound(); err != nil {
				global.Log.Errorf("热重载外呼链路失败: %v", err)
				return err
			}
			// 服务组持有旧客户端的引用，需要一并重建
			service.Service.UserServiceGroup = user.NewServiceGroup()
			service.Service.AdminServiceGroup = admin.NewServiceGroup()
			i.taskManager = task.NewManager(
				service.Service.UserServiceGroup.QuestionService,
				service.Service.UserServiceGroup.ScheduleService,
			)
			// 新服务组里的触发器是空的, 经防抖重新应用库中的调度配置
			i.taskManager.DebounceScheduleReload(2 * time.Second)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		global.Log.Errorf("配置热重载部分失败: %v", err)
	}

	if len(restartNeeded) > 0 {
		global.Log.Warnf("以下配置变更需要重启才能生效: %s", strings.Join(restartNeeded, ", "))
	}
}
