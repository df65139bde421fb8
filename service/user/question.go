package user

import (
	"errors"
	"fmt"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/internal/trendyol"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"gitee.com/taoJie_1/trendyol-agent/utils"
)

// QuestionStore 问题记录的持久化操作
type QuestionStore interface {
	GetByQuestionId(questionId string) (*db.Question, error)
	HasPrior(customerId, productMainId string) (bool, error)
	Create(q *db.Question) error
	GetPending() ([]db.Question, error)
	GetNeedsApproval() ([]db.Question, error)
	UpdateRemoteAnswer(questionId, answerId, answerText string, answerDate int64, status, answerType string) error
	UpdateDraft(questionId, conversationId, answerText string, unknown bool) error
	UpdatePostResult(questionId string, answerDate int64, status, answerType string, success bool) error
	UpdateApproval(questionId string, approved bool, editedAnswer string) error
}

type QuestionService interface {
	// 拉取远端待回答问题并与本地状态对账
	PollQuestions() ([]db.Question, error)
	// 对单条本地记录执行自动回答决策
	DecideAndAnswer(q *db.Question) error
	// 执行一次完整的 拉取-对账-决策-发布 循环
	RunCycle() (string, error)
	// 按天分页回溯同步历史问题, 返回对账条数
	SyncHistory(days int64) (int, error)
	// 查询单条问题, 不存在时返回nil
	GetQuestionById(questionId string) (*db.Question, error)
	// 待人工审批列表
	GetNeedsApproval() ([]db.Question, error)
	// 人工审批: 通过时发布答案, 驳回时退回待回答
	HandleApproval(questionId string, approved bool, editedAnswer string) error
}

type questionService struct {
	store  QuestionStore
	remote trendyol.Service
	gen    global.Generator
}

func NewQuestionService(store QuestionStore, remote trendyol.Service, gen global.Generator) QuestionService {
	return &questionService{
		store:  store,
		remote: remote,
		gen:    gen,
	}
}

// nowMs 以配置时区计算当前毫秒时间戳
func nowMs() int64 {
	return utils.TimeToMs(time.Now().In(global.Tz))
}

// PollQuestions 增量对账: 逐条upsert, 不清空本地历史
// 认证失败立即中止本轮, 避免队列里堆积注定失败的请求
func (s *questionService) PollQuestions() ([]db.Question, error) {
	page, err := s.remote.GetWaitingQuestions()
	if err != nil {
		if request.IsAuthError(err) {
			return nil, fmt.Errorf("[question]凭证校验失败, 中止本轮同步: %w", err)
		}
		return nil, fmt.Errorf("[question]拉取远端问题失败: %w", err)
	}

	remoteSeen := make(map[string]struct{}, len(page.Content))
	for i := range page.Content {
		remoteSeen[trendyol.FormatQuestionId(page.Content[i].Id)] = struct{}{}
		if err := s.reconcileOne(&page.Content[i]); err != nil {
			global.Log.Warnf("[question]对账问题 %d 失败: %v", page.Content[i].Id, err)
		}
	}

	// 本地待回答但远端列表里不再出现的问题, 多半已在卖家后台被人工回复,
	// 逐条核实并回填, 否则会一直对着已回答的问题生成草稿
	pending, err := s.store.GetPending()
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if _, ok := remoteSeen[pending[i].QuestionId]; ok {
			continue
		}
		s.verifyAnswered(&pending[i])
	}

	return s.store.GetPending()
}

// verifyAnswered 向远端核实单条本地待回答问题的最新状态
// 核实失败只记日志, 不影响本轮其余问题
func (s *questionService) verifyAnswered(q *db.Question) {
	if !q.IsWaiting() {
		return
	}
	remote, err := s.remote.GetQuestion(q.QuestionId)
	if err != nil {
		global.Log.Warnf("[question]核实问题 %s 远端状态失败: %v", q.QuestionId, err)
		return
	}
	if remote == nil || remote.Status == string(enum.StatusWaitingForAnswer) {
		return
	}
	if err := s.reconcileOne(remote); err != nil {
		global.Log.Warnf("[question]回填问题 %s 远端答案失败: %v", q.QuestionId, err)
	}
}

// reconcileOne 单条远端问题与本地记录对账
func (s *questionService) reconcileOne(remote *common.RemoteQuestion) error {
	questionId := trendyol.FormatQuestionId(remote.Id)

	local, err := s.store.GetByQuestionId(questionId)
	if err != nil {
		return err
	}

	if local == nil {
		// 首次见到: 同客户同商品已有历史提问则判定为追问, 一律转人工
		customerId := fmt.Sprintf("%d", remote.CustomerId)
		followUp, err := s.store.HasPrior(customerId, remote.ProductMainId)
		if err != nil {
			return err
		}

		q := &db.Question{
			QuestionId:    questionId,
			CustomerId:    customerId,
			ProductMainId: remote.ProductMainId,
			ProductName:   remote.ProductName,
			ProductWebUrl: remote.WebUrl,
			QuestionText:  remote.Text,
			QuestionDate:  remote.CreationDate,
			Status:        remote.Status,
			IsPublic:      remote.Public,
			IsFollowUp:    followUp,
			NeedsApproval: followUp,
		}
		// 首次见到即已被回答的历史问题, 连同远端答案一并落库
		if remote.Answer != nil {
			q.AnswerId = fmt.Sprintf("%d", remote.Answer.Id)
			q.AnswerText = remote.Answer.Text
			q.AnswerDate = remote.Answer.CreationDate
			q.AnswerType = string(enum.AnswerTypeProvider)
		}
		if followUp {
			global.Log.Infof("[question]检测到追问 %s (客户%s 商品%s), 转人工审批", questionId, customerId, remote.ProductMainId)
		}
		// question_id唯一约束保证同批次重复ID幂等
		return s.store.Create(q)
	}

	// 已存在且远端已带答案: 回填远端答案字段
	// 本地PROVIDER答案优先保留, 不被远端覆盖
	if remote.Status != string(enum.StatusWaitingForAnswer) && remote.Answer != nil {
		if local.AnswerType == string(enum.AnswerTypeProvider) && local.AnswerText != "" {
			return nil
		}
		return s.store.UpdateRemoteAnswer(
			questionId,
			fmt.Sprintf("%d", remote.Answer.Id),
			remote.Answer.Text,
			remote.Answer.CreationDate,
			remote.Status,
			string(enum.AnswerTypeProvider),
		)
	}
	return nil
}

// DecideAndAnswer 自动回答策略
// 追问永不自动发布; 无草稿则生成; 草稿含未知标记则留给人工
func (s *questionService) DecideAndAnswer(q *db.Question) error {
	if q.IsFollowUp {
		return nil
	}
	if q.NeedsApproval {
		// 低置信度草稿已在人工队列中, 等待审批
		return nil
	}
	if q.AnswerType != string(enum.AnswerTypeNone) {
		// 已有答案归属(如发布失败降级为人工渠道), 不再自动重试
		return nil
	}

	answerText := q.AnswerText
	conversationId := q.ChatbaseConversationId

	if answerText == "" {
		// 带上商品名, 生成后端才知道问的是哪件商品
		prompt := fmt.Sprintf("Product: %s Question: %s", q.ProductName, q.QuestionText)
		draft, err := s.gen.GenerateAnswer(prompt)
		if err != nil {
			return fmt.Errorf("[question]生成问题 %s 的草稿失败: %w", q.QuestionId, err)
		}
		if draft == nil {
			// 暂无草稿, 留待下一轮
			global.Log.Debugf("[question]问题 %s 暂未获得草稿", q.QuestionId)
			return nil
		}
		answerText = draft.AnswerText
		conversationId = draft.ConversationId

		unknown := utils.ContainsAny(answerText, global.Config.Answer.UnknownMarkers)
		if err := s.store.UpdateDraft(q.QuestionId, conversationId, answerText, unknown); err != nil {
			return err
		}
		if unknown {
			global.Log.Infof("[question]问题 %s 草稿含未知标记, 转人工审批", q.QuestionId)
			return nil
		}
	}

	ok, err := s.remote.PostAnswer(q.QuestionId, answerText)
	if err != nil || !ok {
		// 发布失败退回人工渠道, 保留失败记录供人工处理
		global.Log.Warnf("[question]发布问题 %s 的答案失败: %v", q.QuestionId, err)
		return s.store.UpdatePostResult(q.QuestionId, nowMs(), string(enum.StatusWaitingForAnswer), string(enum.AnswerTypeProvider), false)
	}

	global.Log.Infof("[question]问题 %s 已自动回答", q.QuestionId)
	return s.store.UpdatePostResult(q.QuestionId, nowMs(), string(enum.StatusAnswered), string(enum.AnswerTypeAutomatic), true)
}

// RunCycle 一次完整循环, 返回人类可读的执行摘要
func (s *questionService) RunCycle() (string, error) {
	pending, err := s.PollQuestions()
	if err != nil {
		return "", err
	}

	var answered, held, failed int
	for i := range pending {
		q := &pending[i]
		if err := s.DecideAndAnswer(q); err != nil {
			failed++
			global.Log.Warnf("[question]处理问题 %s 失败: %v", q.QuestionId, err)
			continue
		}
		// 重新读取以统计结果
		latest, err := s.store.GetByQuestionId(q.QuestionId)
		if err != nil || latest == nil {
			continue
		}
		switch {
		case latest.Status == string(enum.StatusAnswered) && latest.AnswerType == string(enum.AnswerTypeAutomatic):
			answered++
		case latest.NeedsApproval || latest.IsFollowUp:
			held++
		}
	}

	result := fmt.Sprintf("待处理%d条, 自动回答%d条, 转人工%d条, 失败%d条", len(pending), answered, held, failed)
	return result, nil
}

// SyncHistory 逐天回溯远端历史问题并增量对账
// 远端接口按时间窗口分页, 每个自然日(配置时区)独立翻页
func (s *questionService) SyncHistory(days int64) (int, error) {
	if days <= 0 {
		days = global.Config.Answer.HistorySyncDays
	}
	if days <= 0 {
		return 0, nil
	}

	total := 0
	now := time.Now().In(global.Tz)
	for d := int64(0); d < days; d++ {
		day := now.AddDate(0, 0, -int(d))
		start, end := utils.DayBounds(day, global.Tz)
		startMs, endMs := utils.TimeToMs(start), utils.TimeToMs(end)

		for page := 0; ; page++ {
			result, err := s.remote.GetPagedQuestions(page, startMs, endMs)
			if err != nil {
				if request.IsAuthError(err) {
					return total, fmt.Errorf("[question]凭证校验失败, 中止历史同步: %w", err)
				}
				global.Log.Warnf("[question]拉取 %s 第%d页失败: %v", day.Format("2006-01-02"), page, err)
				break
			}
			for i := range result.Content {
				if err := s.reconcileOne(&result.Content[i]); err != nil {
					global.Log.Warnf("[question]历史对账问题 %d 失败: %v", result.Content[i].Id, err)
					continue
				}
				total++
			}
			if int64(page)+1 >= result.TotalPages || len(result.Content) == 0 {
				break
			}
		}
	}
	return total, nil
}

func (s *questionService) GetQuestionById(questionId string) (*db.Question, error) {
	return s.store.GetByQuestionId(questionId)
}

func (s *questionService) GetNeedsApproval() ([]db.Question, error) {
	return s.store.GetNeedsApproval()
}

// HandleApproval 审批通过时把最终答案发布到远端后落库;
// 发布失败直接返回错误, 审批状态保持不变等待重试
func (s *questionService) HandleApproval(questionId string, approved bool, editedAnswer string) error {
	q, err := s.store.GetByQuestionId(questionId)
	if err != nil {
		return err
	}
	if q == nil {
		return errors.New("问题不存在")
	}
	if !q.NeedsApproval {
		return errors.New("该问题无需审批")
	}

	if !approved {
		return s.store.UpdateApproval(questionId, false, editedAnswer)
	}

	text := editedAnswer
	if text == "" {
		text = q.BestAnswer()
	}
	if text == "" {
		return errors.New("没有可发布的答案")
	}

	ok, err := s.remote.PostAnswer(questionId, text)
	if err != nil {
		return fmt.Errorf("[question]发布审批答案失败: %w", err)
	}
	if !ok {
		return errors.New("远端拒绝了答案发布")
	}

	return s.store.UpdateApproval(questionId, true, editedAnswer)
}
