package dynamo

// DynamoDB attribute names used in expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID           = "user_id"
	fieldSessionID        = "session_id"
	fieldPhone            = "phone"
	fieldTelegramID       = "telegram_id"
	fieldCodeID           = "code_id"
	fieldCode             = "code"
	fieldUsed             = "used"
	fieldExpiresAt        = "expires_at"
	fieldEnable           = "enable"
	fieldLastLoginAt      = "last_login_at"
	fieldUpdatedAt        = "updated_at"
	fieldRefreshDigest    = "refresh_digest"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldBlockKey         = "block_key"
)
