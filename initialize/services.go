package initialize

import (
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/internal/chatbase"
	"gitee.com/taoJie_1/trendyol-agent/internal/llm"
	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/internal/redis"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/internal/trendyol"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
)

// initOutbound 初始化外呼链路: 限速队列 -> 重试执行器 -> 各API客户端
// 商家API与答案生成API共用同一条队列, 全局串行化外呼
func (i *Initializer) initOutbound() error {
	interval := time.Duration(global.Config.Answer.QueueIntervalMs) * time.Millisecond
	retries := int(global.Config.Answer.Retries)
	retryDelay := time.Duration(global.Config.Answer.RetryDelayMs) * time.Millisecond

	global.Queue = queue.New(interval, global.Log)
	global.Executor = request.NewClient(global.Log, 30*time.Second)

	global.TrendyolService = trendyol.NewClient(global.Config.Trendyol, global.Queue, global.Executor, global.Log, retries, retryDelay)

	preamble := global.Config.Answer.PromptPreamble
	switch global.Config.Answer.Generator {
	case string(enum.GeneratorOpenai):
		global.AnswerGenerator = llm.NewClient(global.Config.Llm, preamble, global.Queue, global.Log)
	default:
		global.AnswerGenerator = chatbase.NewClient(global.Config.Chatbase, preamble, global.Queue, global.Executor, global.Log, retries, retryDelay)
	}

	global.Log.Infof("外呼链路初始化成功, 队列间隔: %v, 重试: %d次, 生成后端: %s", interval, retries, global.Config.Answer.Generator)
	return nil
}

// queueStop 关停外呼队列, 拒绝积压任务
func (i *Initializer) queueStop() {
	if global.Queue != nil {
		global.Queue.Stop()
	}
}

// initRedis 初始化Redis客户端; 未配置地址时跳过, 循环锁退化为进程内互斥
func (i *Initializer) initRedis() {
	if global.Config.Redis.Addr == "" {
		global.Log.Infoln("未配置Redis, 循环锁仅在进程内生效")
		return
	}

	client, err := redis.NewClient(
		global.Config.Redis.Addr,
		global.Config.Redis.Password,
		int(global.Config.Redis.DB),
		global.Config.Redis.LockPrefix,
		global.Config.Redis.LockExpiry,
	)
	if err != nil {
		global.Log.Warnf("初始化Redis客户端失败, 循环锁仅在进程内生效: %v", err)
		return
	}
	global.RedisClient = client
	global.Log.Info("初始化Redis服务成功")
}

// redisClose 关闭Redis客户端连接
func (i *Initializer) redisClose() error {
	if global.RedisClient != nil {
		return global.RedisClient.Close()
	}
	return nil
}
