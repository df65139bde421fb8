package initialize

import (
	"context"
	"os"
	"sync"

	"gitee.com/taoJie_1/trendyol-agent/task"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Initializer 统一管理项目的所有初始化工作
type Initializer struct {
	cron           *cron.Cron
	taskManager    *task.Manager
	logFileClosers []*os.File
	reloadLock     sync.Mutex
}

func New() *Initializer {
	return loadConfig()
}

// Run 并发执行所有核心服务的初始化
func (i *Initializer) Run() error {
	eg, _ := errgroup.WithContext(context.Background())

	// 关键任务，失败会终止程序
	eg.Go(i.dbStart)
	eg.Go(i.initOutbound)

	// 非关键任务，失败只打印日志，不影响启动
	eg.Go(func() error {
		i.initRedis()
		return nil
	})

	return eg.Wait()
}

// Close 优雅地关闭和释放所有资源
func (i *Initializer) Close() {
	i.timerStop()
	i.queueStop()
	_ = i.redisClose()
	_ = i.dbClose()
	for _, f := range i.logFileClosers {
		_ = f.Close()
	}
}

// StartSystem 启动系统级服务，如定时器和数据加载
func (i *Initializer) StartSystem(taskManager *task.Manager) {
	i.taskManager = taskManager
	if err := i.timerStart(taskManager); err != nil {
		panic(err)
	}
	i.loadData(taskManager)
}
