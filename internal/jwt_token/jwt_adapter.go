package jwttoken

import (
	id "almanah/pkg/domain"
)

// UserResolver adapts JWTService to the auth middleware, which only needs the current user.
type UserResolver struct {
	service *JWTService
}

func NewUserResolver(service *JWTService) *UserResolver {
	return &UserResolver{service: service}
}

func (a *UserResolver) ResolveUser(tokenString string) (id.UserRef, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return id.UserRef{}, err
	}
	return claims.UserRef()
}
