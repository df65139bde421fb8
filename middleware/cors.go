package middleware

import (
	"net/http"
	"time"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CorsHandle 跨域配置, 允许的来源从配置文件读取
func CorsHandle() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(global.Config.Cors) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = global.Config.Cors
	}
	return cors.New(cfg)
}

// OptionsMethod 预检请求直接放行
func OptionsMethod(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodOptions {
		ctx.AbortWithStatus(http.StatusNoContent)
		return
	}
	ctx.Next()
}
