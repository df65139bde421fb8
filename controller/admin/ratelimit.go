package admin

import (
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"github.com/gin-gonic/gin"
)

type RateLimitApi struct{}

// ListRateLimits 各端点的限速策略记录
func (r *RateLimitApi) ListRateLimits(ctx *gin.Context) {
	list, err := service.Service.AdminServiceGroup.RateLimitService.List()
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.Success(ctx, list)
}

// UpdateRateLimit 新增或覆盖某端点的限速策略
func (r *RateLimitApi) UpdateRateLimit(ctx *gin.Context) {
	var req common.RateLimitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.Fail(ctx, "参数解析失败")
		return
	}

	if err := service.Service.AdminServiceGroup.RateLimitService.Update(req.Endpoint, req.RequestsPerMinute, req.Enabled); err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.SuccessOk(ctx, "限速策略已更新")
}
