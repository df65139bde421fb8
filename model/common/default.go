package common

// RemoteAnswer Trendyol问题接口中内嵌的答案结构
type RemoteAnswer struct {
	Id           int64  `json:"id"`
	Text         string `json:"text"`
	CreationDate int64  `json:"creationDate"` // 毫秒时间戳
}

// RemoteQuestion Trendyol问题接口返回的单条问题
type RemoteQuestion struct {
	Id            int64         `json:"id"`
	CustomerId    int64         `json:"customerId"`
	ProductMainId string        `json:"productMainId"`
	ProductName   string        `json:"productName"`
	WebUrl        string        `json:"webUrl"`
	Text          string        `json:"text"`
	CreationDate  int64         `json:"creationDate"` // 毫秒时间戳
	Status        string        `json:"status"`
	Public        bool          `json:"public"`
	Answer        *RemoteAnswer `json:"answer"`
}

// QuestionPage Trendyol问题列表接口的分页响应
type QuestionPage struct {
	Content       []RemoteQuestion `json:"content"`
	Page          int64            `json:"page"`
	Size          int64            `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int64            `json:"totalPages"`
}

// Draft 答案生成后端返回的草稿
type Draft struct {
	AnswerText     string `json:"answer_text"`
	ConversationId string `json:"conversation_id"`
}

// DashboardStats 看板统计
type DashboardStats struct {
	PendingCount     int64 `json:"pending_count"`
	NeedsApproval    int64 `json:"needs_approval"`
	AnsweredTotal    int64 `json:"answered_total"`
	AutomaticTotal   int64 `json:"automatic_total"`
	FollowUpTotal    int64 `json:"follow_up_total"`
	LastJobRunningAt int64 `json:"last_job_running_at"`
	LastJobState     string `json:"last_job_state"`
}
