package initialize

import (
	"flag"
	"fmt"
	"strings"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

var (
	Conf string
	Act  string
)

func init() {
	flag.StringVar(&Conf, "c", "", "choose config file.")
	flag.StringVar(&Act, "a", "", `行为,默认为空,即启动服务; "sync": 回溯同步历史问题; "cycle": 手动执行一轮自动回答; "clearlog": 清除过期日志;`)
}

// loadConfig 创建一个新的初始化器，并加载配置文件
func loadConfig() *Initializer {
	var configPath string
	if gin.Mode() != gin.TestMode {
		flag.Parse()
		if Conf != "" {
			configPath = Conf
		}
	}
	if configPath == "" {
		configPath = `config.yaml`
	}

	i := &Initializer{}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		panic("读取配置失败[u9ij]: " + configPath + err.Error())
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("配置文件变化[djiads]: ", e.Name)
		oldConfig := global.Config.DeepCopy()
		if err := v.Unmarshal(global.Config); err != nil {
			fmt.Println(err)
			return
		}
		handleConfig(global.Config)
		i.HandleConfigChange(oldConfig, global.Config)
	})

	if err := v.Unmarshal(global.Config); err != nil {
		panic("出错[dhfal]: " + err.Error())
	}

	handleConfig(global.Config)

	return i
}

// handleConfig 处理和设置配置的默认值
func handleConfig(c *config.Config) {
	c.StaticDir = strings.TrimRight(c.StaticDir, "/")

	if c.ProjectName == "" {
		c.ProjectName = "Trendyol问答助手"
	}
	if c.GinAddr == "" {
		c.GinAddr = ":80"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.GinLogPath == "" {
		c.GinLogPath = "log/gin.log"
	}
	if c.RunLogPath == "" {
		c.RunLogPath = "log/run.log"
	}
	if c.Tz == "" {
		c.Tz = "Europe/Istanbul"
	}
	if len(c.Cors) == 0 {
		c.Cors = []string{"*"}
	}
	if c.Database.Type == "" {
		c.Database.Type = string(enum.SQLITE)
	}
	if c.Database.SqlitePath == "" {
		c.Database.SqlitePath = "data.db"
	}
	if c.Redis.LockPrefix == "" {
		c.Redis.LockPrefix = "agent:lock:"
	}
	if c.Redis.LockExpiry == 0 {
		c.Redis.LockExpiry = 300
	}
	if c.Trendyol.Url == "" {
		c.Trendyol.Url = "https://api.trendyol.com/sapigw"
	}
	if c.Trendyol.UserAgent == "" {
		c.Trendyol.UserAgent = "TrendyolMarketplaceBot/1.0"
	}
	if c.Trendyol.PageSize == 0 {
		c.Trendyol.PageSize = 50
	}
	if c.Chatbase.Url == "" {
		c.Chatbase.Url = "https://www.chatbase.co/api/v1/chat"
	}
	if c.Llm.Timeout == 0 {
		c.Llm.Timeout = 30
	}
	if c.Answer.Generator == "" {
		c.Answer.Generator = string(enum.GeneratorChatbase)
	}
	if c.Answer.PromptPreamble == "" {
		c.Answer.PromptPreamble = string(enum.PromptPreambleDefault)
	}
	if len(c.Answer.UnknownMarkers) == 0 {
		c.Answer.UnknownMarkers = []string{"xyz"}
	}
	if c.Answer.QueueIntervalMs == 0 {
		c.Answer.QueueIntervalMs = 1000
	}
	if c.Answer.Retries == 0 {
		c.Answer.Retries = 3
	}
	if c.Answer.RetryDelayMs == 0 {
		c.Answer.RetryDelayMs = 5000
	}
	if c.Answer.HistorySyncDays == 0 {
		c.Answer.HistorySyncDays = 14
	}
}
