package request

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/utils"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// 出站请求执行器: 单次调用 + 有界指数退避重试 + 类型化失败
// 401/403不参与重试, 直接交还调用方短路处理

// ApiError 重试耗尽后的类型化错误, 携带HTTP状态码与原始响应体
// 传输层失败(无响应)时状态码记为500
type ApiError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("上游请求失败: status=%d, msg=%s", e.StatusCode, e.Message)
}

// IsAuthError 上游凭证失效
func IsAuthError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// Spec 描述一次出站调用
type Spec struct {
	Method  string
	Url     string
	Headers map[string]string
	Body    interface{} // 非nil时JSON序列化为请求体
}

// Response 归一化后的响应
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Client struct {
	http *resty.Client
	log  *logrus.Logger
}

// NewClient 重试由Do自行控制, 不使用resty内建重试
func NewClient(log *logrus.Logger, timeout time.Duration) *Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, log: log}
}

// Do 执行一次出站调用
// 失败时等待delay后以retries-1和delay*2递归, 直至耗尽并抛出ApiError
func (c *Client) Do(spec Spec, retries int, delay time.Duration) (*Response, error) {
	resp, err := c.attempt(spec)
	if err == nil {
		return resp, nil
	}

	apiErr, _ := err.(*ApiError)
	if apiErr != nil && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		// 凭证问题重试无意义, 由调用方决定中止本轮
		return nil, err
	}

	if retries > 0 {
		if c.log != nil {
			c.log.Warnf("[request]请求失败, %v 后重试 (剩余%d次): %s %s", delay, retries, spec.Method, spec.Url)
		}
		time.Sleep(delay)
		return c.Do(spec, retries-1, delay*2)
	}

	return nil, err
}

// attempt 单次调用; 任何非2xx/3xx或传输失败都视为本次失败
func (c *Client) attempt(spec Spec) (*Response, error) {
	req := c.http.R()
	if len(spec.Headers) > 0 {
		req.SetHeaders(spec.Headers)
	}
	if spec.Body != nil {
		req.SetBody(spec.Body)
	}

	resp, err := req.Execute(spec.Method, spec.Url)
	if err != nil {
		if c.log != nil {
			c.log.Errorf("[request]传输失败: %s %s: %v", spec.Method, spec.Url, err)
		}
		return nil, &ApiError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}

	body := resp.Body()
	if c.log != nil {
		c.log.Infof("[request]%s %s -> %d, 响应: %s", spec.Method, spec.Url, resp.StatusCode(), utils.Truncate(string(body), 512))
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &ApiError{
			StatusCode: resp.StatusCode(),
			Body:       string(body),
			Message:    resp.Status(),
		}
	}

	return &Response{StatusCode: resp.StatusCode(), Body: body}, nil
}
