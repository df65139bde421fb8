package dao

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	DB *sqlx.DB
	// mysql支持行锁, sqlite不支持
	CanLock bool

	utils = new(dbUtils)

	App = new(AppGroup)
)

type AppGroup struct {
	QuestionDb  QuestionDb
	SettingsDb  SettingsDb
	JobLogDb    JobLogDb
	RateLimitDb RateLimitDb
}

// Tx 在事务内执行fn, 出错自动回滚
func Tx(fn func(tx *sqlx.Tx) error) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}

	if err := fn(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			return fmt.Errorf("回滚失败: %v; 原错误: %w", e, err)
		}
		return err
	}

	return tx.Commit()
}
