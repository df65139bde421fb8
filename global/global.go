package global

import (
	"time"

	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/internal/redis"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/internal/trendyol"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"github.com/sirupsen/logrus"
)

// Generator 答案生成器(chatbase或openai兼容后端)
type Generator interface {
	GenerateAnswer(questionText string) (*common.Draft, error)
}

// 全局变量
// 业务逻辑禁止修改
var (
	Config          *config.Config = new(config.Config) //指针类型, 给与其内存空间
	Log             *logrus.Logger
	Tz              *time.Location
	Queue           *queue.Queue
	Executor        *request.Client
	TrendyolService trendyol.Service
	AnswerGenerator Generator
	RedisClient     *redis.Client
)
