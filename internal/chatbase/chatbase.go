package chatbase

import (
	"encoding/json"
	"net/http"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Chatbase答案生成客户端
// 拿不到草稿是常态而非错误: 空文本/传输失败统一返回(nil, nil),
// 调用方应视为"本轮没有草稿, 下轮再试"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	ConversationId string        `json:"conversationId"`
	Messages       []chatMessage `json:"messages"`
	ChatbotId      string        `json:"chatbotId"`
	Stream         bool          `json:"stream"`
}

type chatResponse struct {
	Text string `json:"text"`
}

type Client struct {
	cfg        config.Chatbase
	preamble   string
	queue      *queue.Queue
	executor   *request.Client
	log        *logrus.Logger
	retries    int
	retryDelay time.Duration
}

func NewClient(cfg config.Chatbase, preamble string, q *queue.Queue, executor *request.Client, log *logrus.Logger, retries int, retryDelay time.Duration) *Client {
	return &Client{
		cfg:        cfg,
		preamble:   preamble,
		queue:      q,
		executor:   executor,
		log:        log,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// GenerateAnswer 单轮请求生成一条答案草稿
// 提示词要求后端直接作答, 不要反问追问
func (c *Client) GenerateAnswer(questionText string) (*common.Draft, error) {
	conversationId := uuid.NewString()

	payload := chatPayload{
		ConversationId: conversationId,
		Messages: []chatMessage{
			{Role: "user", Content: c.preamble + questionText},
		},
		ChatbotId: c.cfg.AgentId,
		Stream:    false,
	}

	res, err := c.queue.Enqueue(func() (interface{}, error) {
		return c.executor.Do(request.Spec{
			Method: http.MethodPost,
			Url:    c.cfg.Url,
			Headers: map[string]string{
				"Authorization": "Bearer " + c.cfg.Auth,
			},
			Body: payload,
		}, c.retries, c.retryDelay)
	})
	if err != nil {
		// 生成失败不致命, 下个周期重试
		if c.log != nil {
			c.log.Errorf("[chatbase]生成答案失败, 会话 %s: %v", conversationId, err)
		}
		return nil, nil
	}

	resp := res.(*request.Response)
	var body chatResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		if c.log != nil {
			c.log.Warnf("[chatbase]响应解析失败, 会话 %s: %v", conversationId, err)
		}
		return nil, nil
	}

	if body.Text == "" {
		if c.log != nil {
			c.log.Infof("[chatbase]返回空文本, 会话 %s", conversationId)
		}
		return nil, nil
	}

	return &common.Draft{AnswerText: body.Text, ConversationId: conversationId}, nil
}
