package common

import (
	"net/http"

	"gitee.com/taoJie_1/trendyol-agent/model/enum"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Code enum.ResCode `json:"code"`
	Data interface{}  `json:"data"`
	Msg  enum.Msg     `json:"msg"`
}

func result(ctx *gin.Context, code enum.ResCode, msg enum.Msg, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code: code,
		Data: data,
		Msg:  msg,
	})
}

// 带data
func Success(ctx *gin.Context, data interface{}) {
	result(ctx, enum.SuccessCode, enum.DefaultSuccessMsg, data)
}

// 带msg,不带data
func SuccessOk(ctx *gin.Context, message string) {
	result(ctx, enum.SuccessCode, enum.Msg(message), map[string]interface{}{})
}

func Fail(ctx *gin.Context, message string) {
	result(ctx, enum.ErrorCode, enum.Msg(message), map[string]interface{}{})
}

func FailNotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, Response{
		Code: enum.ErrorCode,
		Msg:  enum.DefaultFailMsg,
	})
}

// 上游凭证失效(401/403)
func FailAuth(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusOK, Response{
		Code: enum.AuthErrorCode,
		Msg:  enum.Msg(message),
		Data: make(map[string]interface{}, 0),
	})
}
