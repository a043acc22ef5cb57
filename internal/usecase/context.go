package usecase

import (
	"context"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
)

// ctxString reads a value set either by gin (c.Set with a string key) or by context.WithValue.
func ctxString(ctx context.Context, key domain.CtxKey) string {
	if v, ok := ctx.Value(string(key)).(string); ok && v != "" {
		return v
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// requireOwner rejects callers acting on a profile other than their own.
func requireOwner(ctx context.Context, userID string) error {
	ctxUserID := ctxString(ctx, domain.KeyUserID)
	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own profile")
	}
	return nil
}

func requireAdmin(ctx context.Context) error {
	if ctxString(ctx, domain.KeyUserRole) != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func normalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxSize {
		pageSize = defaultSize
	}
	return page, pageSize
}
