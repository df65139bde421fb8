package user

import (
	"gitee.com/taoJie_1/trendyol-agent/internal/request"
	"gitee.com/taoJie_1/trendyol-agent/model/common"
	"gitee.com/taoJie_1/trendyol-agent/service"
	"github.com/gin-gonic/gin"
)

type QuestionApi struct{}

// PollQuestions 手动触发一次远端问题同步, 返回当前待处理集
func (q *QuestionApi) PollQuestions(ctx *gin.Context) {
	pending, err := service.Service.UserServiceGroup.QuestionService.PollQuestions()
	if err != nil {
		if request.IsAuthError(err) {
			common.FailAuth(ctx, "商家API凭证校验失败")
			return
		}
		common.Fail(ctx, err.Error())
		return
	}
	common.Success(ctx, pending)
}

// GetPending 待人工审批的问题列表
func (q *QuestionApi) GetPending(ctx *gin.Context) {
	list, err := service.Service.UserServiceGroup.QuestionService.GetNeedsApproval()
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.Success(ctx, list)
}

// GetQuestion 单条问题详情
func (q *QuestionApi) GetQuestion(ctx *gin.Context) {
	id := ctx.Param("id")
	question, err := service.Service.UserServiceGroup.QuestionService.GetQuestionById(id)
	if err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	if question == nil {
		common.FailNotFound(ctx)
		return
	}
	common.Success(ctx, question)
}

// HandleApproval 人工审批; 通过时发布答案到远端
func (q *QuestionApi) HandleApproval(ctx *gin.Context) {
	id := ctx.Param("id")

	var req common.ApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.Fail(ctx, "参数解析失败")
		return
	}

	if err := service.Service.UserServiceGroup.QuestionService.HandleApproval(id, req.Approved, req.EditedAnswer); err != nil {
		common.Fail(ctx, err.Error())
		return
	}
	common.SuccessOk(ctx, "审批已处理")
}
