package dao

import (
	"fmt"

	"gitee.com/taoJie_1/trendyol-agent/global"
	"gitee.com/taoJie_1/trendyol-agent/model/enum"
)

// 启动时保证表结构存在; 生产升级走外部迁移, 这里只兜底初始建表

func pkDef() string {
	if global.Config.Database.Type == string(enum.MYSQL) {
		return "`id` INT PRIMARY KEY AUTO_INCREMENT"
	}
	return "`id` INTEGER PRIMARY KEY AUTOINCREMENT"
}

func EnsureSchema() error {
	pk := pkDef()

	// mysql不支持 CREATE INDEX IF NOT EXISTS, 索引写进建表语句; sqlite反之
	questionIndexes := ",INDEX `idx_questions_customer_product` (`customer_id`, `product_main_id`)" +
		",INDEX `idx_questions_status` (`status`)"
	var extraDdl []string
	if global.Config.Database.Type != string(enum.MYSQL) {
		questionIndexes = ""
		extraDdl = []string{
			"CREATE INDEX IF NOT EXISTS `idx_questions_customer_product` ON `questions` (`customer_id`, `product_main_id`)",
			"CREATE INDEX IF NOT EXISTS `idx_questions_status` ON `questions` (`status`)",
		}
	}

	ddl := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `questions` ("+
			"%s,"+
			"`created_at` BIGINT NOT NULL DEFAULT 0,"+
			"`updated_at` BIGINT NOT NULL DEFAULT 0,"+
			"`question_id` VARCHAR(64) NOT NULL,"+
			"`customer_id` VARCHAR(64) NOT NULL DEFAULT '',"+
			"`product_main_id` VARCHAR(128) NOT NULL DEFAULT '',"+
			"`product_name` VARCHAR(512) NOT NULL DEFAULT '',"+
			"`product_web_url` VARCHAR(1024) NOT NULL DEFAULT '',"+
			"`question_text` TEXT NOT NULL,"+
			"`question_date` BIGINT NOT NULL DEFAULT 0,"+
			"`chatbase_conversation_id` VARCHAR(64) NOT NULL DEFAULT '',"+
			"`is_chatbase_unknown` BOOLEAN NOT NULL DEFAULT 0,"+
			"`answer_id` VARCHAR(64) NOT NULL DEFAULT '',"+
			"`answer_text` TEXT NOT NULL,"+
			"`answer_text_edited` TEXT NOT NULL,"+
			"`answer_type` VARCHAR(16) NOT NULL DEFAULT '',"+
			"`answer_date` BIGINT NOT NULL DEFAULT 0,"+
			"`status` VARCHAR(32) NOT NULL DEFAULT '',"+
			"`is_public` BOOLEAN NOT NULL DEFAULT 0,"+
			"`is_follow_up` BOOLEAN NOT NULL DEFAULT 0,"+
			"`success` BOOLEAN NOT NULL DEFAULT 0,"+
			"`needs_approval` BOOLEAN NOT NULL DEFAULT 0,"+
			"`approved` BOOLEAN NOT NULL DEFAULT 0,"+
			"UNIQUE(`question_id`)"+
			"%s)", pk, questionIndexes),

		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `settings_config` ("+
			"%s,"+
			"`created_at` BIGINT NOT NULL DEFAULT 0,"+
			"`updated_at` BIGINT NOT NULL DEFAULT 0,"+
			"`automatic_answer` BOOLEAN NOT NULL DEFAULT 0,"+
			"`weekdays` VARCHAR(128) NOT NULL DEFAULT '',"+
			"`start_time` VARCHAR(8) NOT NULL DEFAULT '',"+
			"`end_time` VARCHAR(8) NOT NULL DEFAULT '',"+
			"`time_zone` VARCHAR(64) NOT NULL DEFAULT '')", pk),

		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `job_logs` ("+
			"%s,"+
			"`created_at` BIGINT NOT NULL DEFAULT 0,"+
			"`updated_at` BIGINT NOT NULL DEFAULT 0,"+
			"`state` VARCHAR(16) NOT NULL DEFAULT '',"+
			"`result` TEXT NOT NULL,"+
			"`running_at` BIGINT NOT NULL DEFAULT 0)", pk),

		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `rate_limit_config` ("+
			"%s,"+
			"`created_at` BIGINT NOT NULL DEFAULT 0,"+
			"`updated_at` BIGINT NOT NULL DEFAULT 0,"+
			"`endpoint` VARCHAR(128) NOT NULL,"+
			"`requests_per_minute` BIGINT NOT NULL DEFAULT 0,"+
			"`enabled` BOOLEAN NOT NULL DEFAULT 1,"+
			"UNIQUE(`endpoint`))", pk),
	}

	for _, stmt := range append(ddl, extraDdl...) {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("初始化表结构失败[vb72ls]: %w", err)
		}
	}
	return nil
}
