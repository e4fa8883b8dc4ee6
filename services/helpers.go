package services

import (
	"errors"
	"strings"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/repositories"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// --- Общие хелперы ---

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizePage clamps pagination input and returns the offset for it.
func normalizePage(page, limit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// handleMatchRepoError переводит ошибки репозитория матчей в ошибки сервиса.
func handleMatchRepoError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, repositories.ErrMatchIDConflict):
		return ErrMatchIDCollision
	case errors.Is(err, repositories.ErrMatchInvalidOrg):
		return ErrUserNotFound
	default:
		return apperr.Infrastructure(err, "Failed to "+action)
	}
}

func handleUserRepoError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserFirebaseConflict):
		return ErrUserAlreadyExists
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrEmailTaken
	default:
		return apperr.Infrastructure(err, "Failed to "+action)
	}
}

func handlePaymentRepoError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPaymentNotFound):
		return ErrPaymentNotFound
	case errors.Is(err, repositories.ErrPaymentInvalidFK):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrPaymentDuplicate):
		return apperr.Wrap(err, apperr.KindDuplicate, "Payment already recorded")
	default:
		return apperr.Infrastructure(err, "Failed to "+action)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
