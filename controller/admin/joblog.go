package admin

import (
	"strconv"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"github.com/gin-gonic/gin"
)

type JobLogApi struct{}

// ListJobLogs 最近的调度执行记录, 新的在前
func (j *JobLogApi) ListJobLogs(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	list, err := service.Service.AdminServiceGroup.JobLogService.List(limit)
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.Success(ctx, list)
}

// SyncHistory 手动触发历史问题回溯同步, 异步执行
func (j *JobLogApi) SyncHistory(ctx *gin.Context) {
	var req common.SyncHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.Fail(ctx, "参数解析失败")
		return
	}

	go func() {
		count, err := service.Service.UserServiceGroup.QuestionService.SyncHistory(int64(req.Days))
		if err != nil {
			global.Log.Errorf("通过API触发历史同步失败: %v", err)
			return
		}
		global.Log.Infof("通过API触发的历史同步完成, 共对账 %d 条", count)
	}()

	common.SuccessOk(ctx, "历史同步任务已启动")
}
