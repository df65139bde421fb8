package task

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/utils"
)

// 清除日志文件
func (m *Manager) CleanUpLogs() error {
	retentionDays := global.Config.LogRetentionDays
	if retentionDays == 0 {
		global.Log.Info("日志清理功能已禁用 (log_retention_days = 0)")
		return nil
	}

	global.Log.Info("开始执行日志清理任务...")

	// gin_log_path 和 run_log_path 应在同一个目录下
	logDir := filepath.Dir(global.Config.RunLogPath)
	now := time.Now().In(global.Tz)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, global.Tz)
	cutoffDate := today.AddDate(0, 0, -int(retentionDays))

	deletedCount := 0
	var errs []string

	err := filepath.WalkDir(logDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// 从文件名中解析日期, e.g., run.log.2025-10-28
		fileDate, ok := utils.ParseDateFromLogFileName(d.Name(), global.Tz)
		if !ok {
			return nil
		}

		if fileDate.Before(cutoffDate) {
			if err := os.Remove(path); err != nil {
				errMsg := fmt.Sprintf("删除旧日志文件 %s 失败: %v", path, err)
				global.Log.Error(errMsg)
				errs = append(errs, errMsg)
			} else {
				global.Log.Infof("已删除旧日志文件: %s", path)
				deletedCount++
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("遍历日志目录 '%s' 失败: %w", logDir, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("日志清理过程中发生错误: %s", strings.Join(errs, "; "))
	}

	global.Log.Infof("日志清理任务完成，共删除 %d 个文件", deletedCount)
	return nil
}
