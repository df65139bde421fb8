package dao

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
)

type QuestionDb struct{}

// GetByQuestionId 按远端问题ID查询, 不存在返回(nil, nil)
func (d *QuestionDb) GetByQuestionId(questionId string) (*db.Question, error) {
	var q db.Question
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` WHERE `question_id` = ? LIMIT 1", db.Question{}.TableName())

	if err := DB.Get(&q, sqlStr, questionId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// HasPrior 同一(客户,商品)是否已有历史提问; 用于追问判定
// 取代原实现里独立的follow-up缓存, 始终以主存储为准
func (d *QuestionDb) HasPrior(customerId, productMainId string) (bool, error) {
	var count int64
	sqlStr := fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `customer_id` = ? AND `product_main_id` = ?", db.Question{}.TableName())

	if err := DB.Get(&count, sqlStr, customerId, productMainId); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 插入新问题; question_id唯一, 重复插入按无操作处理(同批次重复ID幂等)
func (d *QuestionDb) Create(q *db.Question) error {
	data := map[string]interface{}{
		"question_id":              q.QuestionId,
		"customer_id":              q.CustomerId,
		"product_main_id":          q.ProductMainId,
		"product_name":             q.ProductName,
		"product_web_url":          q.ProductWebUrl,
		"question_text":            q.QuestionText,
		"question_date":            q.QuestionDate,
		"chatbase_conversation_id": q.ChatbaseConversationId,
		"is_chatbase_unknown":      q.IsChatbaseUnknown,
		"answer_id":                q.AnswerId,
		"answer_text":              q.AnswerText,
		"answer_text_edited":       q.AnswerTextEdited,
		"answer_type":              q.AnswerType,
		"answer_date":              q.AnswerDate,
		"status":                   q.Status,
		"is_public":                q.IsPublic,
		"is_follow_up":             q.IsFollowUp,
		"success":                  q.Success,
		"needs_approval":           q.NeedsApproval,
		"approved":                 q.Approved,
	}

	sqlStr, args := utils.getInsertSql(db.Question{}, data)

	switch global.Config.Database.Type {
	case string(enum.MYSQL):
		sqlStr = strings.Replace(sqlStr, "INSERT INTO", "INSERT IGNORE INTO", 1)
	default:
		sqlStr = strings.Replace(sqlStr, "INSERT INTO", "INSERT OR IGNORE INTO", 1)
	}

	_, err := DB.Exec(sqlStr, args...)
	return err
}

// GetPending 本地仍处于待回答状态的问题
func (d *QuestionDb) GetPending() ([]db.Question, error) {
	list := make([]db.Question, 0)
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` WHERE `status` = ? ORDER BY `question_date` ASC", db.Question{}.TableName())

	if err := DB.Select(&list, sqlStr, string(enum.StatusWaitingForAnswer)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetNeedsApproval 待人工审批的问题
func (d *QuestionDb) GetNeedsApproval() ([]db.Question, error) {
	list := make([]db.Question, 0)
	sqlStr := fmt.Sprintf("SELECT * FROM `%s` WHERE `needs_approval` = ? ORDER BY `question_date` ASC", db.Question{}.TableName())

	if err := DB.Select(&list, sqlStr, true); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateRemoteAnswer 远端已有答案时回填本地记录
func (d *QuestionDb) UpdateRemoteAnswer(questionId, answerId, answerText string, answerDate int64, status, answerType string) error {
	sqlStr, args := utils.getUpdateSql(db.Question{}, "question_id", questionId, map[string]interface{}{
		"answer_id":   answerId,
		"answer_text": answerText,
		"answer_date": answerDate,
		"status":      status,
		"answer_type": answerType,
	})

	_, err := DB.Exec(sqlStr, args...)
	return err
}

// UpdateDraft 保存生成的草稿; 低置信度时强制转人工审批
func (d *QuestionDb) UpdateDraft(questionId, conversationId, answerText string, unknown bool) error {
	data := map[string]interface{}{
		"chatbase_conversation_id": conversationId,
		"answer_text":              answerText,
		"is_chatbase_unknown":      unknown,
	}
	if unknown {
		data["needs_approval"] = true
	}

	sqlStr, args := utils.getUpdateSql(db.Question{}, "question_id", questionId, data)
	_, err := DB.Exec(sqlStr, args...)
	return err
}

// UpdatePostResult 记录一次发布尝试的结果
func (d *QuestionDb) UpdatePostResult(questionId string, answerDate int64, status, answerType string, success bool) error {
	sqlStr, args := utils.getUpdateSql(db.Question{}, "question_id", questionId, map[string]interface{}{
		"answer_date": answerDate,
		"status":      status,
		"answer_type": answerType,
		"success":     success,
	})

	_, err := DB.Exec(sqlStr, args...)
	return err
}

// UpdateApproval 审批结果落库
func (d *QuestionDb) UpdateApproval(questionId string, approved bool, editedAnswer string) error {
	data := map[string]interface{}{
		"approved":       approved,
		"needs_approval": false,
	}
	if editedAnswer != "" {
		data["answer_text_edited"] = editedAnswer
	}
	if approved {
		data["answer_type"] = string(enum.AnswerTypeManual)
		data["status"] = string(enum.StatusAnswered)
		data["success"] = true
	}

	sqlStr, args := utils.getUpdateSql(db.Question{}, "question_id", questionId, data)
	_, err := DB.Exec(sqlStr, args...)
	return err
}

// Stats 看板统计
func (d *QuestionDb) Stats() (*common.DashboardStats, error) {
	table := db.Question{}.TableName()
	stats := new(common.DashboardStats)

	type item struct {
		dst *int64
		sql string
		arg []interface{}
	}
	items := []item{
		{&stats.PendingCount, fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `status` = ?", table), []interface{}{string(enum.StatusWaitingForAnswer)}},
		{&stats.NeedsApproval, fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `needs_approval` = ?", table), []interface{}{true}},
		{&stats.AnsweredTotal, fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `status` = ?", table), []interface{}{string(enum.StatusAnswered)}},
		{&stats.AutomaticTotal, fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `answer_type` = ?", table), []interface{}{string(enum.AnswerTypeAutomatic)}},
		{&stats.FollowUpTotal, fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `is_follow_up` = ?", table), []interface{}{true}},
	}

	for _, it := range items {
		if err := DB.Get(it.dst, it.sql, it.arg...); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
