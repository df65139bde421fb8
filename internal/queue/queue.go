package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// 所有对外部限速接口(Trendyol/答案生成)的调用 必须经过这里排队
// 单worker串行消费, 每个任务结束后固定等待interval, 这是刻意的节流而非性能瓶颈

var ErrStopped = errors.New("队列已停止")

// Task 一个无参的出站调用
type Task func() (interface{}, error)

type result struct {
	val interface{}
	err error
}

type job struct {
	task Task
	done chan result
}

type Queue struct {
	jobs     chan *job
	interval time.Duration
	log      *logrus.Logger
	stopOnce sync.Once
	stopped  chan struct{}
}

// New 创建队列并启动唯一的worker协程
func New(interval time.Duration, log *logrus.Logger) *Queue {
	q := &Queue{
		jobs:     make(chan *job, 1024),
		interval: interval,
		log:      log,
		stopped:  make(chan struct{}),
	}
	go q.worker()
	return q
}

// Enqueue 提交任务并阻塞等待其结果
// 并发提交安全; 按提交顺序执行; 任务失败只影响它自己的调用方
func (q *Queue) Enqueue(task Task) (interface{}, error) {
	j := &job{task: task, done: make(chan result, 1)}

	select {
	case q.jobs <- j:
	case <-q.stopped:
		return nil, ErrStopped
	}

	select {
	case r := <-j.done:
		return r.val, r.err
	case <-q.stopped:
		// 队列关停时worker可能已经写回结果, 再探一次
		select {
		case r := <-j.done:
			return r.val, r.err
		default:
			return nil, ErrStopped
		}
	}
}

// Stop 停止worker; 未开始的任务以ErrStopped返回给调用方, 不会悄悄丢弃
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopped)
	})
}

func (q *Queue) worker() {
	for {
		select {
		case <-q.stopped:
			q.reject()
			return
		case j := <-q.jobs:
			q.run(j)

			select {
			case <-time.After(q.interval):
			case <-q.stopped:
				q.reject()
				return
			}
		}
	}
}

func (q *Queue) run(j *job) {
	defer func() {
		if p := recover(); p != nil {
			if q.log != nil {
				q.log.Errorf("[queue]任务panic: %v", p)
			}
			j.done <- result{err: errors.New("任务执行异常")}
		}
	}()

	val, err := j.task()
	j.done <- result{val: val, err: err}
}

// 关停后清空积压, 逐个回绝
func (q *Queue) reject() {
	for {
		select {
		case j := <-q.jobs:
			j.done <- result{err: ErrStopped}
		default:
			return
		}
	}
}
