package admin

import (
	"strings"

	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/model/db"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"github.com/gin-gonic/gin"
)

type SettingsApi struct{}

// GetSettings 当前调度配置; 未配置时返回空对象
func (s *SettingsApi) GetSettings(ctx *gin.Context) {
	cfg, err := service.Service.UserServiceGroup.ScheduleService.GetSettings()
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	if cfg == nil {
		common.Success(ctx, map[string]interface{}{})
		return
	}
	common.Success(ctx, cfg)
}

// UpdateSettings 更新调度配置并立即重排触发器
func (s *SettingsApi) UpdateSettings(ctx *gin.Context) {
	var req common.SettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.Fail(ctx, "参数解析失败")
		return
	}

	cfg := &db.SettingsConfig{
		AutomaticAnswer: req.AutomaticAnswer,
		Weekdays:        strings.Join(req.Weekdays, ","),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		TimeZone:        req.TimeZone,
	}

	if err := service.Service.UserServiceGroup.ScheduleService.UpdateSettings(cfg); err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.SuccessOk(ctx, "调度配置已更新")
}
