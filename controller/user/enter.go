package user

type ApiGroup struct {
	QuestionApi  QuestionApi
	DashboardApi DashboardApi
}
