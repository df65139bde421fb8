package enum

type DbType string

const (
	MYSQL  DbType = `mysql`
	SQLITE DbType = `sqlite3`
)

type Msg string

const (
	DefaultSuccessMsg Msg = `ok`
	DefaultFailMsg    Msg = `错误`
)

type ResCode int8

const (
	SuccessCode   ResCode = 0
	ErrorCode     ResCode = 1
	AuthErrorCode ResCode = 2
)

// 问题在Trendyol侧的状态
type QuestionStatus string

const (
	StatusWaitingForAnswer QuestionStatus = "WAITING_FOR_ANSWER"
	StatusAnswered         QuestionStatus = "ANSWERED"
)

// 答案来源类型
type AnswerType string

const (
	// 商家在Trendyol后台人工回复
	AnswerTypeProvider AnswerType = "PROVIDER"
	// 本系统自动发布
	AnswerTypeAutomatic AnswerType = "AUTOMATIC"
	// 审批通过后发布
	AnswerTypeManual AnswerType = "MANUAL"
	// 尚未生成答案
	AnswerTypeNone AnswerType = ""
)

// 定时任务运行状态
type JobState string

const (
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// 答案生成后端类型
type GeneratorType string

const (
	GeneratorChatbase GeneratorType = "chatbase"
	GeneratorOpenai   GeneratorType = "openai"
)

// 发给答案生成后端的提示词前缀, 要求直接作答, 禁止反问
type PromptPreamble string

const (
	PromptPreambleDefault PromptPreamble = `Please provide a direct and complete answer to this customer question without asking follow-up questions: `
)
