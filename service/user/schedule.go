package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"github.com/robfig/cron/v3"
)

// ScheduleStore 调度配置的持久化操作
type ScheduleStore interface {
	Get() (*db.SettingsConfig, error)
	Upsert(s *db.SettingsConfig) error
}

// JobLogStore 每次触发的起止记录
type JobLogStore interface {
	Record() (uint, error)
	Update(id uint, state enum.JobState, result string) error
}

type ScheduleService interface {
	// 应用新调度配置; 先撤销旧触发器再安装新触发器
	Apply(cfg *db.SettingsConfig) error
	// 从库中加载已保存的配置并应用
	Reload() error
	// 配置读写
	GetSettings() (*db.SettingsConfig, error)
	UpdateSettings(cfg *db.SettingsConfig) error
	// 手动触发一轮循环
	RunOnce()
	Stop()
}

// cycleLockName redis循环锁的名称, 客户端自行拼接前缀
const cycleLockName = "auto_answer"

// weekdayNumbers 星期名到cron星期字段的映射, 周日为0
var weekdayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

type scheduleService struct {
	questions QuestionService
	store     ScheduleStore
	jobLogs   JobLogStore

	mu      sync.Mutex // 保护cron的撤销与重建
	cron    *cron.Cron
	running sync.Mutex // 同一触发器的两轮循环不得并发
}

func NewScheduleService(questions QuestionService, store ScheduleStore, jobLogs JobLogStore) ScheduleService {
	return &scheduleService{
		questions: questions,
		store:     store,
		jobLogs:   jobLogs,
	}
}

// buildCronSpec 由星期集合与时段窗口计算cron表达式
// 规则: 每逢偶数分钟触发, 小时范围为[startHour, endHour-1];
// 窗口不足一小时时塌缩为单个小时
func buildCronSpec(cfg *db.SettingsConfig) (string, error) {
	startHour, err := parseHour(cfg.StartTime)
	if err != nil {
		return "", fmt.Errorf("起始时间非法: %w", err)
	}
	endHour, err := parseHour(cfg.EndTime)
	if err != nil {
		return "", fmt.Errorf("结束时间非法: %w", err)
	}

	var hourField string
	if endHour-1 <= startHour {
		hourField = strconv.Itoa(startHour)
	} else {
		hourField = fmt.Sprintf("%d-%d", startHour, endHour-1)
	}

	days := make([]string, 0, 7)
	for _, name := range cfg.WeekdayList() {
		n, ok := weekdayNumbers[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("未知的星期名: %s", name)
		}
		days = append(days, strconv.Itoa(n))
	}
	if len(days) == 0 {
		return "", fmt.Errorf("未指定任何星期")
	}

	return fmt.Sprintf("*/2 %s * * %s", hourField, strings.Join(days, ",")), nil
}

func parseHour(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("小时越界: %d", h)
	}
	return h, nil
}

// Apply 持锁完成撤销旧触发器与安装新触发器, 两者之间不会有任何触发
func (s *scheduleService) Apply(cfg *db.SettingsConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
		global.Log.Infoln("[schedule]旧的自动回答触发器已撤销")
	}

	if cfg == nil || !cfg.Schedulable() {
		global.Log.Infoln("[schedule]自动回答未启用, 不安装触发器")
		return nil
	}

	loc := global.Tz
	if cfg.TimeZone != "" {
		l, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return fmt.Errorf("[schedule]加载时区 %s 失败: %w", cfg.TimeZone, err)
		}
		loc = l
	}

	spec, err := buildCronSpec(cfg)
	if err != nil {
		return fmt.Errorf("[schedule]计算cron表达式失败: %w", err)
	}

	c := cron.New([]cron.Option{
		cron.WithLocation(loc),
	}...)
	if _, err := c.AddFunc(spec, s.fire); err != nil {
		return fmt.Errorf("[schedule]安装触发器失败: %w", err)
	}
	c.Start() //已含协程

	s.cron = c
	global.Log.Infof("[schedule]自动回答触发器已安装: %s (%s)", spec, loc.String())
	return nil
}

// fire 单次触发: 记录起止状态, 失败只记录不中断后续触发
func (s *scheduleService) fire() {
	// 上一轮未结束时跳过本轮
	if !s.running.TryLock() {
		global.Log.Warnln("[schedule]上一轮循环仍在执行, 跳过本次触发")
		return
	}
	defer s.running.Unlock()

	// 多实例部署时经redis抢占循环锁
	if global.RedisClient != nil {
		ctx := context.Background()
		ok, err := global.RedisClient.TryLock(ctx, cycleLockName)
		if err != nil {
			global.Log.Warnf("[schedule]获取循环锁失败: %v", err)
		} else if !ok {
			global.Log.Infoln("[schedule]循环锁被其他实例持有, 跳过本次触发")
			return
		} else {
			defer func() {
				if err := global.RedisClient.Unlock(ctx, cycleLockName); err != nil {
					global.Log.Warnf("[schedule]释放循环锁失败: %v", err)
				}
			}()
		}
	}

	logId, err := s.jobLogs.Record()
	if err != nil {
		global.Log.Errorf("[schedule]写入任务日志失败: %v", err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			global.Log.Errorf("[schedule]循环发生panic: %v", r)
			_ = s.jobLogs.Update(logId, enum.JobStateFailed, fmt.Sprintf("panic: %v", r))
		}
	}()

	result, err := s.questions.RunCycle()
	if err != nil {
		global.Log.Warnf("[schedule]循环执行失败: %v", err)
		if uerr := s.jobLogs.Update(logId, enum.JobStateFailed, err.Error()); uerr != nil {
			global.Log.Errorf("[schedule]更新任务日志失败: %v", uerr)
		}
		return
	}

	if err := s.jobLogs.Update(logId, enum.JobStateCompleted, result); err != nil {
		global.Log.Errorf("[schedule]更新任务日志失败: %v", err)
	}
}

// Reload 进程启动或配置变更后, 重新应用库中保存的调度配置
func (s *scheduleService) Reload() error {
	cfg, err := s.store.Get()
	if err != nil {
		return fmt.Errorf("[schedule]读取调度配置失败: %w", err)
	}
	return s.Apply(cfg)
}

func (s *scheduleService) GetSettings() (*db.SettingsConfig, error) {
	return s.store.Get()
}

// UpdateSettings 落库后立即重排
func (s *scheduleService) UpdateSettings(cfg *db.SettingsConfig) error {
	if _, err := buildCronSpec(cfg); cfg.Schedulable() && err != nil {
		return err
	}
	if err := s.store.Upsert(cfg); err != nil {
		return err
	}
	return s.Apply(cfg)
}

func (s *scheduleService) RunOnce() {
	go s.fire()
}

func (s *scheduleService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
