package dao

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
)

type JobLogDb struct{}

// Record 记录一次调度触发, 初始为running
func (d *JobLogDb) Record() (uint, error) {
	data := map[string]interface{}{
		"state":      string(enum.JobStateRunning),
		"result":     "",
		"running_at": time.Now().Unix(),
	}

	sqlStr, args := utils.getInsertSql(db.JobLog{}, data)
	res, err := DB.Exec(sqlStr, args...)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Update 把running记录转移到唯一的终态
func (d *JobLogDb) Update(id uint, state enum.JobState, result string) error {
	sqlStr, args := utils.getUpdateSql(db.JobLog{}, "id", id, map[string]interface{}{
		"state":  string(state),
		"result": result,
	})

	_, err := DB.Exec(sqlStr, args...)
	return err
}

// List 最近的运行记录
func (d *JobLogDb) List(limit int) ([]db.JobLog, error) {
	if limit <= 0 {
		limit = 50
	}

	list := make([]db.JobLog, 0, limit)
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` ORDER BY `id` DESC LIMIT ?", db.JobLog{}.TableName())

	if err := DB.Select(&list, sqlStr, limit); err != nil {
		return nil, err
	}
	return list, nil
}

// Latest 最近一条运行记录, 不存在返回(nil, nil)
func (d *JobLogDb) Latest() (*db.JobLog, error) {
	var j db.JobLog
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` ORDER BY `id` DESC LIMIT 1", db.JobLog{}.TableName())

	if err := DB.Get(&j, sqlStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}
