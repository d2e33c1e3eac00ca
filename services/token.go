package services

import (
	"fmt"
	"strings"
	"time"

	"attendance/errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// UserInfo is carried in the access token under "userinfo"
type UserInfo struct {
	AccountID  uuid.UUID  `json:"accountId"`
	Role       string     `json:"role"`
	EmployerID uuid.UUID  `json:"employerId"`
	EmployeeID *uuid.UUID `json:"employeeId,omitempty"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// GenerateToken signs userInfo with HS256, valid for expiryMinutes from now
func GenerateToken(userInfo UserInfo, secret []byte, expiryMinutes int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(time.Minute * time.Duration(expiryMinutes))
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
			Subject:   userInfo.AccountID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, errors.NewAppError(errors.ErrCodeInvalidToken, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature and expiry and returns the user info
func ParseToken(tokenString string, secret []byte) (UserInfo, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return UserInfo{}, errors.NewAppError(errors.ErrCodeMissingToken, "missing token", nil)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid or expired token", err)
	}
	if claims.UserInfo.AccountID == uuid.Nil || claims.UserInfo.EmployerID == uuid.Nil {
		return UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token carries no user", nil)
	}
	return claims.UserInfo, nil
}
