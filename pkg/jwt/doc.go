// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// Service restricts accepted algorithms to HS256 and normalises library
// errors into three sentinels: ErrMissingToken, ErrExpiredToken and
// ErrInvalidToken. Extractors read tokens from the Authorization header or a
// query parameter.
//
//	svc, err := jwt.NewFromString(secret)
//	token, err := jwt.BearerTokenExtractor(r)
//	var claims MyClaims
//	if err := svc.Parse(token, &claims); errors.Is(err, jwt.ErrExpiredToken) {
//	    // ...
//	}
package jwt
