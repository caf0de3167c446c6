package common

// AccessTokenHeaderName is the HTTP header carrying the raw access token.
// No "Bearer " prefix is expected.
const AccessTokenHeaderName = "X-Access-Token"

// RefreshTokenSize is the number of random bytes in a refresh token.
const RefreshTokenSize = 32
