package dao

import (
	"fmt"
	"testing"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// 内存库跑真实SQL; 限制单连接, 避免":memory:"多连接各见一张空库
func setupDb(t *testing.T) {
	t.Helper()

	global.Config.Database.Type = string(enum.SQLITE)
	CanLock = false

	d, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("打开内存库失败: %v", err)
	}
	d.SetMaxOpenConns(1)
	DB = d
	t.Cleanup(func() {
		_ = d.Close()
		DB = nil
	})

	if err := EnsureSchema(); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
}

// 连续保存调度配置, 全库始终只有一条记录且内容为最后一次写入
func TestSettingsUpsertSingleRow(t *testing.T) {
	setupDb(t)
	d := &App.SettingsDb

	if err := d.Upsert(&db.SettingsConfig{
		AutomaticAnswer: true,
		Weekdays:        "monday,tuesday",
		StartTime:       "09:00",
		EndTime:         "18:00",
		TimeZone:        "Europe/Istanbul",
	}); err != nil {
		t.Fatalf("首次保存失败: %v", err)
	}

	if err := d.Upsert(&db.SettingsConfig{
		AutomaticAnswer: false,
		Weekdays:        "friday",
		StartTime:       "10:00",
		EndTime:         "16:00",
		TimeZone:        "Europe/Istanbul",
	}); err != nil {
		t.Fatalf("二次保存失败: %v", err)
	}

	var count int
	sqlStr := fmt.Sprintf("SELECT COUNT(*) FROM `%s`", db.SettingsConfig{}.TableName())
	if err := DB.Get(&count, sqlStr); err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if count != 1 {
		t.Fatalf("应只有一条配置记录, 实际%d条", count)
	}

	got, err := d.Get()
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got == nil || got.AutomaticAnswer || got.Weekdays != "friday" || got.StartTime != "10:00" {
		t.Fatalf("应为最后一次写入的内容: %+v", got)
	}
}

// 限速策略按端点唯一, 重复保存同端点只更新不新增
func TestRateLimitUpsertByEndpoint(t *testing.T) {
	setupDb(t)
	d := &App.RateLimitDb

	if err := d.Upsert("questions", 60, true); err != nil {
		t.Fatalf("首次保存失败: %v", err)
	}
	if err := d.Upsert("questions", 30, false); err != nil {
		t.Fatalf("二次保存失败: %v", err)
	}
	if err := d.Upsert("answers", 10, true); err != nil {
		t.Fatalf("保存另一端点失败: %v", err)
	}

	list, err := d.List()
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("应有2个端点, 实际%d个", len(list))
	}

	got, err := d.Get("questions")
	if err != nil || got == nil {
		t.Fatalf("读取失败: %v, %+v", err, got)
	}
	if got.RequestsPerMinute != 30 || got.Enabled {
		t.Fatalf("应为更新后的策略: %+v", got)
	}
}

// 事务内出错整体回滚, 不留半截数据
func TestTxRollback(t *testing.T) {
	setupDb(t)

	wantErr := fmt.Errorf("写入中断")
	err := Tx(func(tx *sqlx.Tx) error {
		data := map[string]interface{}{
			"endpoint":            "questions",
			"requests_per_minute": int64(60),
			"enabled":             true,
		}
		sqlStr, args := utils.getInsertSql(db.RateLimitConfig{}, data)
		if _, err := tx.Exec(sqlStr, args...); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatal("应透传事务内错误")
	}

	got, err := App.RateLimitDb.Get("questions")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got != nil {
		t.Fatalf("回滚后不应存在记录: %+v", got)
	}
}
