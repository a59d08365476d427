package response

// 业务错误码
// 10xxx 通用；11xxx 认证；12xxx 签到场次；13xxx 签到记录；14xxx 报表；50000 内部错误
const (
	CodeInvalidParams   = 10001
	CodeUnauthorized    = 10002
	CodeForbidden       = 10003
	CodeNotFound        = 10004
	CodeTooManyRequests = 10005

	CodeInvalidCredentials = 11001
	CodeTokenRevoked       = 11002

	CodeSessionNotFound = 12001
	CodeSlotConflict    = 12002
	CodeInvalidStatus   = 12003
	CodeSessionNotOpen  = 12004

	CodeRecordValidation = 13001

	CodeStudentNotFound = 14001
	CodeClassNotFound   = 14002

	CodeInternal = 50000
)
