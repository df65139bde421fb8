package dao

import (
	"sort"
	"strings"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/model/db"
)

type dbUtils struct{}

// getInsertSql 构建单行插入语句, 自动补齐created_at/updated_at
func (u *dbUtils) getInsertSql(d db.Dbfunc, data map[string]interface{}) (string, []interface{}) {
	if len(data) == 0 {
		return ``, nil
	}

	tags := db.GetBaseFieldDbTags()
	now := time.Now().Unix()
	if tags.CreatedAtDbTag != "" {
		if _, exists := data[tags.CreatedAtDbTag]; !exists {
			data[tags.CreatedAtDbTag] = now
		}
	}
	if tags.UpdatedAtDbTag != "" {
		if _, exists := data[tags.UpdatedAtDbTag]; !exists {
			data[tags.UpdatedAtDbTag] = now
		}
	}

	// 顺序
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fields strings.Builder
	fields.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			fields.WriteString(", ")
		}
		fields.WriteByte('`')
		fields.WriteString(k)
		fields.WriteByte('`')
	}
	fields.WriteByte(')')

	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		args = append(args, data[k])
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO `")
	sql.WriteString(d.TableName())
	sql.WriteString("` ")
	sql.WriteString(fields.String())
	sql.WriteString(" VALUES (?")
	sql.WriteString(strings.Repeat(", ?", len(keys)-1))
	sql.WriteString(")")

	return sql.String(), args
}

// getUpdateSql 按主键更新, 自动刷新updated_at
func (u *dbUtils) getUpdateSql(d db.Dbfunc, whereField string, whereVal interface{}, data map[string]interface{}) (string, []interface{}) {
	if len(data) < 1 {
		return ``, []interface{}{}
	}

	tags := db.GetBaseFieldDbTags()
	if tags.UpdatedAtDbTag != "" {
		if _, exists := data[tags.UpdatedAtDbTag]; !exists {
			data[tags.UpdatedAtDbTag] = time.Now().Unix()
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		fields strings.Builder
		sql    strings.Builder
		args   []interface{} = make([]interface{}, 0, len(keys)+1)
	)

	for _, k := range keys {
		fields.WriteString(" `")
		fields.WriteString(k)
		fields.WriteString("` = ?,")
		args = append(args, data[k])
	}

	sql.WriteString("UPDATE `")
	sql.WriteString(d.TableName())
	sql.WriteString("` SET")
	sql.WriteString(strings.TrimRight(fields.String(), ","))
	sql.WriteString(" WHERE `")
	sql.WriteString(whereField)
	sql.WriteString("` = ?")
	args = append(args, whereVal)

	return sql.String(), args
}
