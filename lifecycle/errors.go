package lifecycle

import "github.com/Faaz345/playsplit/apperr"

var (
	// Права доступа
	ErrNotOrganizer = apperr.Authorization("Only the match organizer or an admin can perform this action")

	// Состав игроков
	ErrMatchNotOpen     = apperr.BusinessRule("This match is not open for joining")
	ErrMatchFull        = apperr.BusinessRule("Match is full")
	ErrAlreadyJoined    = apperr.BusinessRule("Player already joined")
	ErrPlayerNotFound   = apperr.BusinessRule("Player not found in match")
	ErrCannotLeave      = apperr.BusinessRule("Cannot leave a completed or cancelled match")
	ErrAlreadyPaid      = apperr.Duplicate("Payment already completed under a different reference")
	ErrCapacityTooSmall = apperr.BusinessRule("Max players cannot be lower than the number of joined players")

	// Переходы статусов
	ErrCannotPublish     = apperr.BusinessRule("Only a draft match can be published")
	ErrCannotStart       = apperr.BusinessRule("Match cannot be started")
	ErrCannotComplete    = apperr.BusinessRule("Only a started match can be completed")
	ErrNotPendingDetails = apperr.BusinessRule("This operation is only allowed for quick matches pending details completion")
	ErrCannotCancel      = apperr.BusinessRule("Only an open or started match can be cancelled")
	ErrNotEditable       = apperr.BusinessRule("Only draft or open matches can be edited")
	ErrNoPlayers         = apperr.BusinessRule("At least one player is required to split the cost")
)
