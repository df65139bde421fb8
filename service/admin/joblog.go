package admin

import (
	"gitee.com/taoJie_1/trendyol-agent/model/db"
)

const jobLogListMax = 200

// JobLogStore 任务日志查询
type JobLogStore interface {
	List(limit int) ([]db.JobLog, error)
}

type JobLogService interface {
	List(limit int) ([]db.JobLog, error)
}

type jobLogService struct {
	store JobLogStore
}

func NewJobLogService(store JobLogStore) JobLogService {
	return &jobLogService{store: store}
}

func (s *jobLogService) List(limit int) ([]db.JobLog, error) {
	if limit <= 0 || limit > jobLogListMax {
		limit = jobLogListMax
	}
	return s.store.List(limit)
}
