package trendyol

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/internal/queue"
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/config"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"gitee.com/taoJie_1/trendyol-agent/utils"
	"github.com/sirupsen/logrus"
)

// Trendyol商家问答API客户端
// 所有调用都经过限速队列与重试执行器, 禁止绕开直接外呼

type Service interface {
	// 获取当前待回答问题集(未分页变体)
	GetWaitingQuestions() (*common.QuestionPage, error)
	// 按时间窗口分页获取历史问题
	GetPagedQuestions(page int, startMs, endMs int64) (*common.QuestionPage, error)
	// 获取单个问题的最新远端状态
	GetQuestion(questionId string) (*common.RemoteQuestion, error)
	// 发布答案; 仅HTTP状态在[200,300)时视为成功
	PostAnswer(questionId, text string) (bool, error)
}

type Client struct {
	cfg        config.Trendyol
	queue      *queue.Queue
	executor   *request.Client
	log        *logrus.Logger
	retries    int
	retryDelay time.Duration
}

func NewClient(cfg config.Trendyol, q *queue.Queue, executor *request.Client, log *logrus.Logger, retries int, retryDelay time.Duration) Service {
	return &Client{
		cfg:        cfg,
		queue:      q,
		executor:   executor,
		log:        log,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Basic " + utils.BasicToken(c.cfg.ApiKey, c.cfg.ApiSecret),
		"User-Agent":    c.cfg.UserAgent,
	}
}

// send 经队列与执行器发出一次请求
func (c *Client) send(spec request.Spec) (*request.Response, error) {
	res, err := c.queue.Enqueue(func() (interface{}, error) {
		return c.executor.Do(spec, c.retries, c.retryDelay)
	})
	if err != nil {
		return nil, err
	}
	return res.(*request.Response), nil
}

func (c *Client) GetWaitingQuestions() (*common.QuestionPage, error) {
	url := fmt.Sprintf("%s/suppliers/%s/questions/filter?size=%d&status=%s",
		c.cfg.Url, c.cfg.SellerId, c.cfg.PageSize, enum.StatusWaitingForAnswer)

	resp, err := c.send(request.Spec{Method: http.MethodGet, Url: url, Headers: c.headers()})
	if err != nil {
		return nil, err
	}

	var page common.QuestionPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("解析问题列表失败[q3fd1a]: %w", err)
	}
	return &page, nil
}

func (c *Client) GetPagedQuestions(page int, startMs, endMs int64) (*common.QuestionPage, error) {
	url := fmt.Sprintf("%s/suppliers/%s/questions/filter?size=100&page=%d&startDate=%d&endDate=%d&orderByField=LastModifiedDate&orderByDirection=ASC",
		c.cfg.Url, c.cfg.SellerId, page, startMs, endMs)

	resp, err := c.send(request.Spec{Method: http.MethodGet, Url: url, Headers: c.headers()})
	if err != nil {
		return nil, err
	}

	var result common.QuestionPage
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("解析分页问题失败[8shd2k]: %w", err)
	}
	return &result, nil
}

func (c *Client) GetQuestion(questionId string) (*common.RemoteQuestion, error) {
	url := fmt.Sprintf("%s/suppliers/%s/questions/%s", c.cfg.Url, c.cfg.SellerId, questionId)

	resp, err := c.send(request.Spec{Method: http.MethodGet, Url: url, Headers: c.headers()})
	if err != nil {
		return nil, err
	}

	var q common.RemoteQuestion
	if err := json.Unmarshal(resp.Body, &q); err != nil {
		return nil, fmt.Errorf("解析问题详情失败: %w", err)
	}
	return &q, nil
}

func (c *Client) PostAnswer(questionId, text string) (bool, error) {
	url := fmt.Sprintf("%s/suppliers/%s/questions/%s/answers", c.cfg.Url, c.cfg.SellerId, questionId)

	resp, err := c.send(request.Spec{
		Method:  http.MethodPost,
		Url:     url,
		Headers: c.headers(),
		Body:    map[string]string{"text": text},
	})
	if err != nil {
		if c.log != nil {
			c.log.Errorf("[trendyol]发布答案失败, 问题 %s: %v", questionId, err)
		}
		return false, err
	}
	return resp.Ok(), nil
}

// FormatQuestionId 远端ID为数字, 本地统一存字符串
func FormatQuestionId(id int64) string {
	return strconv.FormatInt(id, 10)
}
