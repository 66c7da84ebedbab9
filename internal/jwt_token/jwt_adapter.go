package jwttoken

import "bigoffice/internal/platform/middleware"

// MiddlewareAdapter satisfies middleware.TokenValidator over JWTService.
type MiddlewareAdapter struct {
	svc *JWTService
}

func NewMiddlewareAdapter(svc *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.ActorClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.ActorClaims{
		UserID:   claims.Subject,
		Role:     claims.Role,
		Username: claims.Username,
	}, nil
}

var _ middleware.TokenValidator = (*MiddlewareAdapter)(nil)
