package dao

import (
	"database/sql"
	"errors"
	"fmt"

	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"github.com/jmoiron/sqlx"
)

type SettingsDb struct{}

// Get 读取唯一的调度配置记录, 不存在返回(nil, nil)
func (d *SettingsDb) Get() (*db.SettingsConfig, error) {
	var s db.SettingsConfig
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` ORDER BY `id` ASC LIMIT 1", db.SettingsConfig{}.TableName())

	if err := DB.Get(&s, sqlStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Upsert 首次保存时创建, 之后原地更新
// 读改写全程在同一事务内, 并发保存不会产生第二条记录
func (d *SettingsDb) Upsert(s *db.SettingsConfig) error {
	return Tx(func(tx *sqlx.Tx) error {
		sqlStr := fmt.Sprintf("SELECT * FROM `%s` ORDER BY `id` ASC LIMIT 1", db.SettingsConfig{}.TableName())
		if CanLock {
			sqlStr += " FOR UPDATE"
		}

		var existing db.SettingsConfig
		found := true
		if err := tx.Get(&existing, sqlStr); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			found = false
		}

		data := map[string]interface{}{
			"automatic_answer": s.AutomaticAnswer,
			"weekdays":         s.Weekdays,
			"start_time":       s.StartTime,
			"end_time":         s.EndTime,
			"time_zone":        s.TimeZone,
		}

		if !found {
			sqlStr, args := utils.getInsertSql(db.SettingsConfig{}, data)
			_, err := tx.Exec(sqlStr, args...)
			return err
		}

		sqlStr, args := utils.getUpdateSql(db.SettingsConfig{}, "id", existing.Id, data)
		_, err := tx.Exec(sqlStr, args...)
		return err
	})
}
