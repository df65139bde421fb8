package llm

import (
	"context"
	"strings"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAI兼容端点的答案生成后端, 与chatbase后端同构:
// 拿不到草稿返回(nil, nil), 由调和器下个周期重试

type Client struct {
	log      *logrus.Logger
	api      *openai.Client
	model    string
	preamble string
	timeout  time.Duration
	queue    *queue.Queue
}

func NewClient(cfg config.Llm, preamble string, q *queue.Queue, log *logrus.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.Auth)
	apiConfig.BaseURL = cfg.Url

	return &Client{
		log:      log,
		api:      openai.NewClientWithConfig(apiConfig),
		model:    cfg.Model,
		preamble: preamble,
		timeout:  time.Duration(cfg.Timeout) * time.Second,
		queue:    q,
	}
}

// filterContent 剥离推理模型可能携带的思考过程标签
func filterContent(rawAnswer string) string {
	if parts := strings.SplitN(rawAnswer, "</think>", 2); len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(rawAnswer)
}

func (c *Client) GenerateAnswer(questionText string) (*common.Draft, error) {
	conversationId := uuid.NewString()

	res, err := c.queue.Enqueue(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		return c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: c.preamble + questionText,
				},
			},
		})
	})
	if err != nil {
		if c.log != nil {
			c.log.Errorf("[llm]生成答案失败, 会话 %s: %v", conversationId, err)
		}
		return nil, nil
	}

	resp := res.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		if c.log != nil {
			c.log.Infof("[llm]返回空结果, 会话 %s", conversationId)
		}
		return nil, nil
	}

	return &common.Draft{
		AnswerText:     filterContent(resp.Choices[0].Message.Content),
		ConversationId: conversationId,
	}, nil
}
