package request

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// 全部失败时: 恰好retries+1次尝试, 退避间隔按 delay, delay*2 递增, 最终错误携带状态码与响应体
func TestRetryCeiling(t *testing.T) {
	var attempts int32
	var stamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		stamps = append(stamps, time.Now())
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer server.Close()

	c := NewClient(nil, 5*time.Second)
	const delay = 20 * time.Millisecond

	_, err := c.Do(Spec{Method: http.MethodGet, Url: server.URL}, 2, delay)
	if err == nil {
		t.Fatal("应返回错误")
	}

	apiErr, ok := err.(*ApiError)
	if !ok {
		t.Fatalf("应为*ApiError, 实际 %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("状态码错误: %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"error":"upstream down"}` {
		t.Fatalf("应携带原始响应体: %q", apiErr.Body)
	}
	if n := atomic.LoadInt32(&attempts); n != 3 {
		t.Fatalf("应尝试3次(retries+1), 实际 %d", n)
	}

	// 第二次尝试与第一次间隔>=delay, 第三次与第二次间隔>=2*delay
	if gap := stamps[1].Sub(stamps[0]); gap < delay {
		t.Fatalf("首次退避 %v 小于 %v", gap, delay)
	}
	if gap := stamps[2].Sub(stamps[1]); gap < 2*delay {
		t.Fatalf("二次退避 %v 小于 %v", gap, 2*delay)
	}
}

// 先失败后成功: 不应把错误抛给调用方
func TestRetryThenSuccess(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer server.Close()

	c := NewClient(nil, 5*time.Second)
	resp, err := c.Do(Spec{Method: http.MethodGet, Url: server.URL}, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if !resp.Ok() {
		t.Fatalf("状态码错误: %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"text":"ok"}` {
		t.Fatalf("响应体错误: %s", resp.Body)
	}
}

// 401/403 不重试, 一次尝试后立刻返回并可被IsAuthError识别
func TestAuthErrorShortCircuit(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(nil, 5*time.Second)
	_, err := c.Do(Spec{Method: http.MethodGet, Url: server.URL}, 5, time.Millisecond)
	if err == nil {
		t.Fatal("应返回错误")
	}
	if !IsAuthError(err) {
		t.Fatalf("应识别为认证错误: %v", err)
	}
	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Fatalf("认证错误不应重试, 实际尝试 %d 次", n)
	}
}

// 传输层失败(连接被拒)记为500
func TestTransportFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关闭, 制造连接失败

	c := NewClient(nil, time.Second)
	_, err := c.Do(Spec{Method: http.MethodGet, Url: server.URL}, 0, time.Millisecond)

	apiErr, ok := err.(*ApiError)
	if !ok {
		t.Fatalf("应为*ApiError, 实际 %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("传输失败状态码应为500, 实际 %d", apiErr.StatusCode)
	}
}
