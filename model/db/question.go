package db

import "gitee.com/taoJie_1/trendyol-agent/model/enum"

// Question 一条来自Trendyol的客户提问及其回答生命周期
// question_id 全局唯一; is_follow_up 的问题永远不自动回答
type Question struct {
	BaseField
	QuestionId    string `db:"question_id" json:"question_id" info:"Trendyol问题ID"`
	CustomerId    string `db:"customer_id" json:"customer_id" info:"客户ID"`
	ProductMainId string `db:"product_main_id" json:"product_main_id" info:"商品主ID"`
	ProductName   string `db:"product_name" json:"product_name" info:"商品名"`
	ProductWebUrl string `db:"product_web_url" json:"product_web_url" info:"商品链接"`
	QuestionText  string `db:"question_text" json:"question_text" info:"问题内容"`
	QuestionDate  int64  `db:"question_date" json:"question_date" info:"提问时间(unix)"`

	ChatbaseConversationId string `db:"chatbase_conversation_id" json:"chatbase_conversation_id" info:"生成会话ID"`
	IsChatbaseUnknown      bool   `db:"is_chatbase_unknown" json:"is_chatbase_unknown" info:"低置信度草稿"`

	AnswerId         string `db:"answer_id" json:"answer_id"`
	AnswerText       string `db:"answer_text" json:"answer_text"`
	AnswerTextEdited string `db:"answer_text_edited" json:"answer_text_edited"`
	AnswerType       string `db:"answer_type" json:"answer_type"`
	AnswerDate       int64  `db:"answer_date" json:"answer_date"`

	Status        string `db:"status" json:"status"`
	IsPublic      bool   `db:"is_public" json:"is_public"`
	IsFollowUp    bool   `db:"is_follow_up" json:"is_follow_up"`
	Success       bool   `db:"success" json:"success"`
	NeedsApproval bool   `db:"needs_approval" json:"needs_approval"`
	Approved      bool   `db:"approved" json:"approved"`
}

func (Question) TableName() string {
	return `questions`
}

// BestAnswer 审批界面展示的最优可用草稿: 人工编辑过的优先
func (q *Question) BestAnswer() string {
	if q.AnswerTextEdited != "" {
		return q.AnswerTextEdited
	}
	return q.AnswerText
}

func (q *Question) IsWaiting() bool {
	return q.Status == string(enum.StatusWaitingForAnswer)
}
