package user

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"github.com/sirupsen/logrus"
)

// fakeStore 以内存map模拟问题持久层, 行为与dao层保持一致
type fakeStore struct {
	records map[string]*db.Question
	order   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*db.Question)}
}

func (f *fakeStore) GetByQuestionId(questionId string) (*db.Question, error) {
	q, ok := f.records[questionId]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) HasPrior(customerId, productMainId string) (bool, error) {
	for _, q := range f.records {
		if q.CustomerId == customerId && q.ProductMainId == productMainId {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(q *db.Question) error {
	if _, ok := f.records[q.QuestionId]; ok {
		// 唯一约束: 重复插入静默忽略
		return nil
	}
	cp := *q
	f.records[q.QuestionId] = &cp
	f.order = append(f.order, q.QuestionId)
	return nil
}

func (f *fakeStore) GetPending() ([]db.Question, error) {
	out := make([]db.Question, 0)
	for _, id := range f.order {
		if q := f.records[id]; q.Status == string(enum.StatusWaitingForAnswer) {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeStore) GetNeedsApproval() ([]db.Question, error) {
	out := make([]db.Question, 0)
	for _, id := range f.order {
		if q := f.records[id]; q.NeedsApproval {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateRemoteAnswer(questionId, answerId, answerText string, answerDate int64, status, answerType string) error {
	q, ok := f.records[questionId]
	if !ok {
		return errors.New("记录不存在")
	}
	q.AnswerId = answerId
	q.AnswerText = answerText
	q.AnswerDate = answerDate
	q.Status = status
	q.AnswerType = answerType
	return nil
}

func (f *fakeStore) UpdateDraft(questionId, conversationId, answerText string, unknown bool) error {
	q, ok := f.records[questionId]
	if !ok {
		return errors.New("记录不存在")
	}
	q.ChatbaseConversationId = conversationId
	q.AnswerText = answerText
	q.IsChatbaseUnknown = unknown
	if unknown {
		q.NeedsApproval = true
	}
	return nil
}

func (f *fakeStore) UpdatePostResult(questionId string, answerDate int64, status, answerType string, success bool) error {
	q, ok := f.records[questionId]
	if !ok {
		return errors.New("记录不存在")
	}
	q.AnswerDate = answerDate
	q.Status = status
	q.AnswerType = answerType
	q.Success = success
	return nil
}

func (f *fakeStore) UpdateApproval(questionId string, approved bool, editedAnswer string) error {
	q, ok := f.records[questionId]
	if !ok {
		return errors.New("记录不存在")
	}
	q.Approved = approved
	q.NeedsApproval = false
	if editedAnswer != "" {
		q.AnswerTextEdited = editedAnswer
	}
	if approved {
		q.AnswerType = string(enum.AnswerTypeManual)
		q.Status = string(enum.StatusAnswered)
		q.Success = true
	}
	return nil
}

// fakeRemote 模拟商家问答API
type fakeRemote struct {
	page       *common.QuestionPage
	history    *common.QuestionPage
	single     map[string]*common.RemoteQuestion
	postOk     bool
	postErr    error
	postCalls  []string
	checkCalls []string
}

func (f *fakeRemote) GetWaitingQuestions() (*common.QuestionPage, error) {
	if f.page == nil {
		return &common.QuestionPage{Content: []common.RemoteQuestion{}}, nil
	}
	return f.page, nil
}

func (f *fakeRemote) GetPagedQuestions(page int, startMs, endMs int64) (*common.QuestionPage, error) {
	if f.history == nil || page > 0 {
		return &common.QuestionPage{Content: []common.RemoteQuestion{}}, nil
	}
	return f.history, nil
}

func (f *fakeRemote) GetQuestion(questionId string) (*common.RemoteQuestion, error) {
	f.checkCalls = append(f.checkCalls, questionId)
	if q, ok := f.single[questionId]; ok {
		return q, nil
	}
	return nil, nil
}

func (f *fakeRemote) PostAnswer(questionId, text string) (bool, error) {
	f.postCalls = append(f.postCalls, questionId)
	return f.postOk, f.postErr
}

// fakeGen 模拟答案生成后端
type fakeGen struct {
	draft  *common.Draft
	err    error
	calls  int
	prompt string
}

func (f *fakeGen) GenerateAnswer(questionText string) (*common.Draft, error) {
	f.calls++
	f.prompt = questionText
	return f.draft, f.err
}

func setupGlobals(t *testing.T) {
	t.Helper()
	global.Log = logrus.New()
	global.Log.SetLevel(logrus.PanicLevel)
	global.Tz = time.UTC
	global.Config.Answer.UnknownMarkers = []string{"xyz"}
	global.RedisClient = nil
}

func waitingQuestion(id int64, customerId int64, productMainId, text string) common.RemoteQuestion {
	return common.RemoteQuestion{
		Id:            id,
		CustomerId:    customerId,
		ProductMainId: productMainId,
		ProductName:   "测试商品",
		Text:          text,
		CreationDate:  1735689600000,
		Status:        string(enum.StatusWaitingForAnswer),
		Public:        true,
	}
}

// TestPollIdempotent 同一批远端问题对账两次, 本地记录集不变
func TestPollIdempotent(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	svc := NewQuestionService(store, remote, &fakeGen{})

	first, err := svc.PollQuestions()
	if err != nil {
		t.Fatalf("首次对账失败: %v", err)
	}
	second, err := svc.PollQuestions()
	if err != nil {
		t.Fatalf("二次对账失败: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("应只有1条本地记录, 实际%d条", len(store.records))
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("两次对账的待处理集应一致: %d vs %d", len(first), len(second))
	}
	q := store.records["1001"]
	if q.IsFollowUp || q.NeedsApproval {
		t.Error("首个问题不应被判定为追问")
	}
}

// TestFollowUpNeverPosted 同客户同商品的第二个问题必须转人工且永不自动发布
func TestFollowUpNeverPosted(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: true, page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	gen := &fakeGen{draft: &common.Draft{AnswerText: "Kargonuz 2 gün içinde kargoya verilecektir.", ConversationId: "c1"}}
	svc := NewQuestionService(store, remote, gen)

	if _, err := svc.PollQuestions(); err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	// 同一客户就同一商品再次提问
	remote.page = &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1002, 7, "P1", "Hala gelmedi?"),
	}}
	pending, err := svc.PollQuestions()
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	q2 := store.records["1002"]
	if q2 == nil {
		t.Fatal("追问记录未创建")
	}
	if !q2.IsFollowUp || !q2.NeedsApproval {
		t.Errorf("追问必须标记 is_follow_up 与 needs_approval, 实际: %+v", q2)
	}

	for i := range pending {
		if err := svc.DecideAndAnswer(&pending[i]); err != nil {
			t.Fatalf("决策失败: %v", err)
		}
	}

	for _, id := range remote.postCalls {
		if id == "1002" {
			t.Error("追问被自动发布了")
		}
	}
}

// TestAutoAnswerSuccess 首个问题获得高置信度草稿后自动发布
func TestAutoAnswerSuccess(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: true, page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	gen := &fakeGen{draft: &common.Draft{AnswerText: "Kargonuz 2 gün içinde kargoya verilecektir.", ConversationId: "c1"}}
	svc := NewQuestionService(store, remote, gen)

	pending, err := svc.PollQuestions()
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}
	if err := svc.DecideAndAnswer(&pending[0]); err != nil {
		t.Fatalf("决策失败: %v", err)
	}

	q := store.records["1001"]
	if q.Status != string(enum.StatusAnswered) {
		t.Errorf("状态应为ANSWERED, 实际%s", q.Status)
	}
	if q.AnswerType != string(enum.AnswerTypeAutomatic) {
		t.Errorf("答案类型应为AUTOMATIC, 实际%s", q.AnswerType)
	}
	if !q.Success {
		t.Error("发布成功应记录 success=true")
	}
	if len(remote.postCalls) != 1 || remote.postCalls[0] != "1001" {
		t.Errorf("应恰好发布一次, 实际: %v", remote.postCalls)
	}
	if gen.prompt != "Product: 测试商品 Question: Kargo ne zaman?" {
		t.Errorf("提示词应携带商品名与问题: %s", gen.prompt)
	}
}

// TestUnknownMarkerHeldForApproval 草稿含未知标记时只存草稿不发布
func TestUnknownMarkerHeldForApproval(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: true, page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Bu ürün su geçirir mi?"),
	}}}
	gen := &fakeGen{draft: &common.Draft{AnswerText: "üzgünüm xyz bu konuda bilgim yok", ConversationId: "c1"}}
	svc := NewQuestionService(store, remote, gen)

	pending, _ := svc.PollQuestions()
	if err := svc.DecideAndAnswer(&pending[0]); err != nil {
		t.Fatalf("决策失败: %v", err)
	}

	q := store.records["1001"]
	if !q.IsChatbaseUnknown || !q.NeedsApproval {
		t.Errorf("低置信度草稿应转人工, 实际: %+v", q)
	}
	if !strings.Contains(q.AnswerText, "xyz") {
		t.Error("草稿文本应已保存")
	}
	if len(remote.postCalls) != 0 {
		t.Errorf("低置信度草稿不应发布, 实际调用: %v", remote.postCalls)
	}
	if q.Status != string(enum.StatusWaitingForAnswer) {
		t.Errorf("状态应保持WAITING_FOR_ANSWER, 实际%s", q.Status)
	}
}

// TestNilDraftLeftPending 生成器暂无草稿时记录保持待处理, 不产生任何变更
func TestNilDraftLeftPending(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: true, page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	gen := &fakeGen{draft: nil}
	svc := NewQuestionService(store, remote, gen)

	pending, _ := svc.PollQuestions()
	if err := svc.DecideAndAnswer(&pending[0]); err != nil {
		t.Fatalf("暂无草稿不应视为错误: %v", err)
	}

	q := store.records["1001"]
	if q.AnswerText != "" || q.Status != string(enum.StatusWaitingForAnswer) {
		t.Errorf("记录应保持原状, 实际: %+v", q)
	}
	if len(remote.postCalls) != 0 {
		t.Error("无草稿时不应发布")
	}
	if gen.calls != 1 {
		t.Errorf("生成器应被调用一次, 实际%d次", gen.calls)
	}
}

// TestPostFailureFallsBackToProvider 发布失败时退回人工渠道并保留失败记录
func TestPostFailureFallsBackToProvider(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: false, postErr: errors.New("502"), page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	gen := &fakeGen{draft: &common.Draft{AnswerText: "Kargonuz yarın teslim edilecek.", ConversationId: "c1"}}
	svc := NewQuestionService(store, remote, gen)

	pending, _ := svc.PollQuestions()
	if err := svc.DecideAndAnswer(&pending[0]); err != nil {
		t.Fatalf("发布失败应被吞掉并落库: %v", err)
	}

	q := store.records["1001"]
	if q.AnswerType != string(enum.AnswerTypeProvider) {
		t.Errorf("发布失败应回退为PROVIDER, 实际%s", q.AnswerType)
	}
	if q.Success {
		t.Error("发布失败应记录 success=false")
	}
	if q.Status != string(enum.StatusWaitingForAnswer) {
		t.Errorf("状态应保持WAITING_FOR_ANSWER, 实际%s", q.Status)
	}
}

// TestReconcileRemoteAnswerPreservesProvider 远端答案回填时不覆盖本地PROVIDER答案
func TestReconcileRemoteAnswerPreservesProvider(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{page: &common.QuestionPage{Content: []common.RemoteQuestion{
		waitingQuestion(1001, 7, "P1", "Kargo ne zaman?"),
	}}}
	svc := NewQuestionService(store, remote, &fakeGen{})

	if _, err := svc.PollQuestions(); err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	// 本地已有PROVIDER答案
	store.records["1001"].AnswerType = string(enum.AnswerTypeProvider)
	store.records["1001"].AnswerText = "本地人工答案"

	answered := waitingQuestion(1001, 7, "P1", "Kargo ne zaman?")
	answered.Status = string(enum.StatusAnswered)
	answered.Answer = &common.RemoteAnswer{Id: 555, Text: "远端答案", CreationDate: 1735693200000}
	remote.page = &common.QuestionPage{Content: []common.RemoteQuestion{answered}}

	if _, err := svc.PollQuestions(); err != nil {
		t.Fatalf("二次对账失败: %v", err)
	}

	if store.records["1001"].AnswerText != "本地人工答案" {
		t.Errorf("PROVIDER答案被远端覆盖: %s", store.records["1001"].AnswerText)
	}
}

// TestSyncHistoryStoresAnswer 历史同步首次见到已回答的问题, 远端答案随记录一并落库
func TestSyncHistoryStoresAnswer(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()

	answered := waitingQuestion(3001, 7, "P1", "Kargo ne zaman?")
	answered.Status = string(enum.StatusAnswered)
	answered.Answer = &common.RemoteAnswer{Id: 555, Text: "Kargonuz teslim edildi.", CreationDate: 1735693200000}
	remote := &fakeRemote{history: &common.QuestionPage{
		Content:    []common.RemoteQuestion{answered},
		TotalPages: 1,
	}}
	svc := NewQuestionService(store, remote, &fakeGen{})

	total, err := svc.SyncHistory(1)
	if err != nil {
		t.Fatalf("历史同步失败: %v", err)
	}
	if total != 1 {
		t.Fatalf("应对账1条, 实际%d条", total)
	}

	q := store.records["3001"]
	if q == nil {
		t.Fatal("历史问题未落库")
	}
	if q.AnswerId != "555" || q.AnswerText != "Kargonuz teslim edildi." || q.AnswerDate != 1735693200000 {
		t.Errorf("远端答案字段未落库: %+v", q)
	}
	if q.AnswerType != string(enum.AnswerTypeProvider) {
		t.Errorf("历史答案类型应为PROVIDER, 实际%q", q.AnswerType)
	}
	if q.Status != string(enum.StatusAnswered) {
		t.Errorf("状态应为ANSWERED, 实际%s", q.Status)
	}
}

// TestPollBackfillsPanelAnswer 卖家后台人工回复过的问题, 对账时逐条核实并回填,
// 不再对其生成草稿或发布
func TestPollBackfillsPanelAnswer(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()

	store.Create(&db.Question{
		QuestionId:    "4001",
		CustomerId:    "7",
		ProductMainId: "P1",
		QuestionText:  "Kargo ne zaman?",
		Status:        string(enum.StatusWaitingForAnswer),
	})

	answered := waitingQuestion(4001, 7, "P1", "Kargo ne zaman?")
	answered.Status = string(enum.StatusAnswered)
	answered.Answer = &common.RemoteAnswer{Id: 888, Text: "Panelden yanıtlandı.", CreationDate: 1735693200000}
	remote := &fakeRemote{single: map[string]*common.RemoteQuestion{"4001": &answered}}
	gen := &fakeGen{draft: &common.Draft{AnswerText: "草稿", ConversationId: "c1"}}
	svc := NewQuestionService(store, remote, gen)

	pending, err := svc.PollQuestions()
	if err != nil {
		t.Fatalf("对账失败: %v", err)
	}

	if len(remote.checkCalls) != 1 || remote.checkCalls[0] != "4001" {
		t.Fatalf("应核实一次远端状态, 实际: %v", remote.checkCalls)
	}
	q := store.records["4001"]
	if q.Status != string(enum.StatusAnswered) || q.AnswerType != string(enum.AnswerTypeProvider) {
		t.Errorf("后台答案应回填为PROVIDER/ANSWERED, 实际: %s/%s", q.AnswerType, q.Status)
	}
	if q.AnswerText != "Panelden yanıtlandı." || q.AnswerId != "888" {
		t.Errorf("答案字段未回填: %+v", q)
	}
	if len(pending) != 0 {
		t.Errorf("回填后不应再出现在待处理集: %d条", len(pending))
	}
	if gen.calls != 0 || len(remote.postCalls) != 0 {
		t.Errorf("已回答的问题不应再生成或发布: 生成%d次, 发布%v", gen.calls, remote.postCalls)
	}
}

// TestHandleApproval 审批通过时发布最终答案, 驳回时不外呼
func TestHandleApproval(t *testing.T) {
	setupGlobals(t)
	store := newFakeStore()
	remote := &fakeRemote{postOk: true}
	svc := NewQuestionService(store, remote, &fakeGen{})

	store.Create(&db.Question{
		QuestionId:    "2001",
		CustomerId:    "9",
		ProductMainId: "P2",
		QuestionText:  "İade edebilir miyim?",
		AnswerText:    "低置信度草稿",
		Status:        string(enum.StatusWaitingForAnswer),
		NeedsApproval: true,
	})

	if err := svc.HandleApproval("2001", true, "编辑后的最终答案"); err != nil {
		t.Fatalf("审批通过失败: %v", err)
	}
	q := store.records["2001"]
	if q.AnswerType != string(enum.AnswerTypeManual) || q.Status != string(enum.StatusAnswered) {
		t.Errorf("审批通过后应为MANUAL/ANSWERED, 实际: %s/%s", q.AnswerType, q.Status)
	}
	if q.AnswerTextEdited != "编辑后的最终答案" {
		t.Errorf("编辑答案未保存: %s", q.AnswerTextEdited)
	}
	if len(remote.postCalls) != 1 {
		t.Errorf("审批通过应发布一次, 实际%d次", len(remote.postCalls))
	}

	store.Create(&db.Question{
		QuestionId:    "2002",
		CustomerId:    "9",
		ProductMainId: "P3",
		AnswerText:    "草稿",
		Status:        string(enum.StatusWaitingForAnswer),
		NeedsApproval: true,
	})
	if err := svc.HandleApproval("2002", false, ""); err != nil {
		t.Fatalf("驳回失败: %v", err)
	}
	if len(remote.postCalls) != 1 {
		t.Error("驳回不应发布答案")
	}
	if store.records["2002"].NeedsApproval {
		t.Error("驳回后应清除审批标记")
	}

	if err := svc.HandleApproval("9999", true, ""); err == nil {
		t.Error("不存在的问题应返回错误")
	}
}
