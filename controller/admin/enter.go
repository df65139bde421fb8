package admin

type ApiGroup struct {
	SettingsApi  SettingsApi
	RateLimitApi RateLimitApi
	JobLogApi    JobLogApi
}
