package dao

import (
	"database/sql"
	"errors"
	"fmt"

	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"github.com/jmoiron/sqlx"
)

type RateLimitDb struct{}

// Get 按端点查询限速策略, 不存在返回(nil, nil)
func (d *RateLimitDb) Get(endpoint string) (*db.RateLimitConfig, error) {
	var r db.RateLimitConfig
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` WHERE `endpoint` = ? LIMIT 1", db.RateLimitConfig{}.TableName())

	if err := DB.Get(&r, sqlStr, endpoint); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (d *RateLimitDb) List() ([]db.RateLimitConfig, error) {
	list := make([]db.RateLimitConfig, 0)
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` ORDER BY `endpoint` ASC", db.RateLimitConfig{}.TableName())

	if err := DB.Select(&list, sqlStr); err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert 端点唯一, 存在即更新; 读改写全程在同一事务内
func (d *RateLimitDb) Upsert(endpoint string, requestsPerMinute int64, enabled bool) error {
	return Tx(func(tx *sqlx.Tx) error {
		sqlStr := fmt.Sprintf("SELECT * FROM `%s` WHERE `endpoint` = ? LIMIT 1", db.RateLimitConfig{}.TableName())
		if CanLock {
			sqlStr += " FOR UPDATE"
		}

		var existing db.RateLimitConfig
		found := true
		if err := tx.Get(&existing, sqlStr, endpoint); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			found = false
		}

		data := map[string]interface{}{
			"requests_per_minute": requestsPerMinute,
			"enabled":             enabled,
		}

		if !found {
			data["endpoint"] = endpoint
			sqlStr, args := utils.getInsertSql(db.RateLimitConfig{}, data)
			_, err := tx.Exec(sqlStr, args...)
			return err
		}

		sqlStr, args := utils.getUpdateSql(db.RateLimitConfig{}, "id", existing.Id, data)
		_, err := tx.Exec(sqlStr, args...)
		return err
	})
}
