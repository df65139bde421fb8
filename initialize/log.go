package initialize

import (
	"fmt"
	"io"
	"os"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// setupLogFile 是一个辅助函数，用于创建和打开一个每日轮转的日志文件。
func (i *Initializer) setupLogFile(logPath string) (*os.File, error) {
	// 采用更通用的日志命名规范, 例如: gin.log -> gin.log.2025-10-28
	dateSuffix := time.Now().In(global.Tz).Format("2006-01-02")
	dailyLogPath := fmt.Sprintf("%s.%s", logPath, dateSuffix)

	if err := utils.CreateFile(dailyLogPath); err != nil {
		return nil, fmt.Errorf("创建日志文件 '%s' 失败: %w", dailyLogPath, err)
	}

	file, err := os.OpenFile(dailyLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件 '%s' 失败: %w", dailyLogPath, err)
	}

	i.logFileClosers = append(i.logFileClosers, file)
	return file, nil
}

// CustomJSONFormatter for logrus to set timezone
type CustomJSONFormatter struct {
	logrus.JSONFormatter
}

func (f *CustomJSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Time = entry.Time.In(global.Tz)
	return f.JSONFormatter.Format(entry)
}

// InitLog 初始化logrus日志库
func (i *Initializer) InitLog() error {
	runfile, err := i.setupLogFile(global.Config.RunLogPath)
	if err != nil {
		return fmt.Errorf("初始化运行日志失败: %w", err)
	}

	global.Log = logrus.New()
	global.Log.SetFormatter(&CustomJSONFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "msg",
				logrus.FieldKeyTime:  "time",
			},
		},
	})
	if global.Config.Debug {
		global.Log.SetLevel(logrus.DebugLevel)
	} else {
		global.Log.SetLevel(logrus.InfoLevel)
	}

	global.Log.SetOutput(io.MultiWriter(os.Stdout, runfile))
	return nil
}

// InitTz 加载配置时区, 所有时间计算都以它为准
func (i *Initializer) InitTz() error {
	Location, err := time.LoadLocation(global.Config.Tz)
	if err != nil {
		return fmt.Errorf("时区配置失败[siortuj]: %w", err)
	}
	global.Tz = Location
	return nil
}

// InitLogger 初始化Gin的访问日志输出
func (i *Initializer) InitLogger() {
	ginfile, err := i.setupLogFile(global.Config.GinLogPath)
	if err != nil {
		// 在此处使用 Fatalf 是合适的，因为如果Gin日志无法初始化，服务继续运行可能会隐藏问题。
		global.Log.Fatalf("初始化Gin日志失败: %v", err)
	}

	// 将Gin日志同时输出到文件和标准输出，便于调试
	gin.DefaultWriter = io.MultiWriter(os.Stdout, ginfile)
	gin.DefaultErrorWriter = gin.DefaultWriter
	gin.DisableConsoleColor() //将日志写入文件时不需要控制台颜色
}
