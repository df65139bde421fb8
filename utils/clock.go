package utils

import "time"

// 时区换算相关的纯函数, 无状态无IO
// 排程窗口判断和日志展示都依赖这里, 跨夏令时也必须正确

// InZone 把一个(UTC或任意时区的)时刻换算到目标时区的墙上时间
func InZone(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// StartOfDay 目标时区下某个日历日的零点时刻
// 用 time.Date 在loc内构造, 夏令时切换日也能得到正确的瞬时
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// EndOfDay 目标时区下某个日历日的最后一刻(23:59:59)
func EndOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, loc)
}

// DayBounds 以某时刻所在的(目标时区)日历日为准, 返回当日起止
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	lt := t.In(loc)
	return StartOfDay(lt.Year(), lt.Month(), lt.Day(), loc),
		EndOfDay(lt.Year(), lt.Month(), lt.Day(), loc)
}

// FormatLog 面向运维的时刻展示
func FormatLog(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateTime)
}

// TimeFormat unix秒转目标时区展示
func TimeFormat(sec int64, loc *time.Location) string {
	return time.Unix(sec, 0).In(loc).Format(time.DateTime)
}

// MsToTime Trendyol接口使用毫秒时间戳
func MsToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TimeToMs(t time.Time) int64 {
	return t.UnixMilli()
}
