package services

import "github.com/Faaz345/playsplit/apperr"

// Общие ошибки сервисного слоя. Все значения несут apperr.Kind, по которому
// handlers выбирают HTTP статус.
var (
	// Ресурс не найден
	ErrMatchNotFound   = apperr.NotFound("Match not found")
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrPaymentNotFound = apperr.NotFound("Payment not found")
	ErrNotRegistered   = apperr.NotFound("User not found. Please register first.")

	// Аутентификация и доступ
	ErrInvalidToken     = apperr.Authentication("Invalid or expired token")
	ErrAccountInactive  = apperr.Authorization("Account is deactivated")
	ErrForbidden        = apperr.Authorization("Access denied")
	ErrAdminRequired    = apperr.Authorization("Admin access required")
	ErrInvalidWebhook   = apperr.Authentication("Invalid webhook signature")
	ErrCannotDemoteSelf = apperr.BusinessRule("Admins cannot change their own role or deactivate themselves")

	// Конфликты
	ErrUserAlreadyExists = apperr.Duplicate("User already registered")
	ErrEmailTaken        = apperr.Duplicate("Email is already registered")
	ErrConcurrentUpdate  = apperr.Conflict("Match was modified by another request, please retry")
	ErrMatchIDCollision  = apperr.Conflict("Could not allocate a unique match code, please retry")
	ErrRequestInFlight   = apperr.Conflict("The same request is already being processed")

	// Платежи
	ErrNotMatchPlayer     = apperr.BusinessRule("You are not part of this match")
	ErrPaymentCompleted   = apperr.BusinessRule("Payment already completed")
	ErrNothingToPay       = apperr.BusinessRule("There is nothing to pay for this match yet")
	ErrInvalidSignature   = apperr.New(apperr.KindPayment, "Invalid payment signature")
	ErrPaymentNotCaptured = apperr.New(apperr.KindPayment, "Payment has not been captured by the gateway")
	ErrRefundNotPaid      = apperr.BusinessRule("Can only refund completed payments")
	ErrRefundCash         = apperr.BusinessRule("Cannot process online refund for cash payments")
	ErrRefundTooLarge     = apperr.BusinessRule("Refund amount cannot exceed the paid amount")
	ErrGatewayDisabled    = apperr.New(apperr.KindPayment, "Payment gateway is not configured")

	// Файлы
	ErrStorageDisabled = apperr.New(apperr.KindInfrastructure, "File storage is not configured")
	ErrAvatarTooLarge  = apperr.Validation("Profile picture must be 5MB or smaller", map[string]string{"avatar": "too large"})
	ErrAvatarType      = apperr.Validation("Only JPEG, PNG and WebP images are allowed", map[string]string{"avatar": "unsupported type"})
)
