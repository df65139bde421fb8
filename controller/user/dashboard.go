package user

import (
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"github.com/gin-gonic/gin"
)

type DashboardApi struct{}

// GetStats 看板统计: 问题计数与最近一次调度执行状态
func (d *DashboardApi) GetStats(ctx *gin.Context) {
	stats, err := service.Service.UserServiceGroup.DashboardService.GetStats()
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.Success(ctx, stats)
}
