package flow

import (
	"encoding/json"
	"errors"

	"tempest2mqtt/internal/entry"

	"golang.org/x/oauth2"
)

const (
	defaultExpiresIn = 3600
	defaultTokenType = "Bearer"
)

// NormalizeToken shapes the WeatherFlow token response into a storable form.
// WeatherFlow issues long-lived access tokens without a refresh token, so the
// access token doubles as its own refresh token, and missing expiry/type
// fields get standard defaults. The expires_in value is passed through from
// the raw token response rather than recomputed from the expiry time.
func NormalizeToken(tok *oauth2.Token) (entry.Token, error) {
	if tok == nil || tok.AccessToken == "" {
		return entry.Token{}, errors.New("token response has no access_token")
	}
	normalized := entry.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.AccessToken,
		ExpiresIn:    expiresIn(tok),
		TokenType:    tok.TokenType,
	}
	if normalized.TokenType == "" {
		normalized.TokenType = defaultTokenType
	}
	return normalized, nil
}

func expiresIn(tok *oauth2.Token) int {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return defaultExpiresIn
}
