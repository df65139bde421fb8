package chatbase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
)

func newTestClient(t *testing.T, url string) (*Client, *queue.Queue) {
	t.Helper()
	q := queue.New(time.Millisecond, nil)
	c := NewClient(
		config.Chatbase{Url: url, AgentId: "bot-1", Auth: "key"},
		"Answer directly: ",
		q,
		request.NewClient(nil, time.Second),
		nil,
		0,
		time.Millisecond,
	)
	return c, q
}

// 正常返回: 草稿带文本与本次生成的会话ID, 请求体包含禁止反问的前缀
func TestGenerateAnswer(t *testing.T) {
	var gotPayload chatPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotPayload)
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("认证头错误: %s", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"text":"Kargonuz 2 gün içinde kargoya verilecektir."}`))
	}))
	defer server.Close()

	c, q := newTestClient(t, server.URL)
	defer q.Stop()

	draft, err := c.GenerateAnswer("Kargo ne zaman?")
	if err != nil {
		t.Fatalf("不应出错: %v", err)
	}
	if draft == nil {
		t.Fatal("应返回草稿")
	}
	if draft.AnswerText == "" || draft.ConversationId == "" {
		t.Fatalf("草稿不完整: %+v", draft)
	}
	if gotPayload.ChatbotId != "bot-1" || gotPayload.Stream {
		t.Fatalf("请求体错误: %+v", gotPayload)
	}
	if len(gotPayload.Messages) != 1 || gotPayload.Messages[0].Role != "user" {
		t.Fatalf("消息结构错误: %+v", gotPayload.Messages)
	}
	if got := gotPayload.Messages[0].Content; got != "Answer directly: Kargo ne zaman?" {
		t.Fatalf("应在问题前拼接配置的导语: %s", got)
	}
	if gotPayload.ConversationId != draft.ConversationId {
		t.Fatal("会话ID应与草稿一致")
	}
}

// 空文本与传输失败都返回(nil, nil): 无草稿不是错误
func TestGenerateAnswerNoDraft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer server.Close()

	c, q := newTestClient(t, server.URL)
	defer q.Stop()

	draft, err := c.GenerateAnswer("soru")
	if err != nil || draft != nil {
		t.Fatalf("空文本应为(nil, nil), 实际 (%v, %v)", draft, err)
	}

	// 服务端不可达
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	c2, q2 := newTestClient(t, dead.URL)
	defer q2.Stop()

	draft, err = c2.GenerateAnswer("soru")
	if err != nil || draft != nil {
		t.Fatalf("传输失败应为(nil, nil), 实际 (%v, %v)", draft, err)
	}
}
