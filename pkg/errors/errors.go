package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是面向馆员/读者的提示信息（法语，与前端约定一致）
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败、冲突）
// - 5xxxx: 服务端错误（数据库异常、缓存异常、消息队列异常）
//
// 业务分类与HTTP层的映射约定：
// - 40000/40900段 → 400
// - 40400段       → 404
// - 40090-40099段 → 409

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 资源错误（40400-40499）
	ErrCodeNotFound        = 40400 // 资源不存在（通用）
	ErrCodeUserNotFound    = 40401 // 读者不存在
	ErrCodeLivreNotFound   = 40402 // 图书不存在
	ErrCodeEmpruntNotFound = 40403 // 借阅记录不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError     = 40000 // 业务错误（通用）
	ErrCodeLivreIndisponible = 40001 // 图书不可借（无剩余副本）
	ErrCodeUserInactif       = 40002 // 读者账号未激活
	ErrCodeEmpruntEnCours    = 40003 // 读者已有未归还的借阅
	ErrCodeEmpruntNonActif   = 40004 // 借阅记录不在进行中（已归还）

	// 冲突错误（40090-40099）
	ErrCodeDuplicateEntry = 40090 // 重复记录（通用）
	ErrCodeEmailDuplicate = 40091 // 邮箱已存在
	ErrCodeISBNDuplicate  = 40092 // ISBN已存在
	ErrCodeDeleteBlocked  = 40093 // 存在进行中的借阅，禁止删除

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "Erreur interne du serveur")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Erreur de base de données")
	ErrRedisError    = New(ErrCodeRedisError, "Erreur du service de cache")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Paramètres invalides")
	ErrBindError     = New(ErrCodeBindError, "Format de requête invalide")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Erreur interne du serveur")
}

// IsNotFound 判断是否为"资源不存在"类错误（40400段）
// 用途：HTTP层决定返回404还是业务码
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40400 && appErr.Code <= 40499
}

// IsConflict 判断是否为冲突类错误（40090-40099段）
func IsConflict(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40090 && appErr.Code <= 40099
}

// IsValidation 判断是否为校验/业务规则类错误（40000段与40900段）
func IsValidation(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return (appErr.Code >= 40000 && appErr.Code <= 40089) ||
		(appErr.Code >= 40900 && appErr.Code <= 40999)
}
