// AngelaMos | 2026
// verifier.go

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

// Principal is what a verifier extracts from a valid token. Supabase
// tokens carry an email and an external subject id; legacy tokens carry
// the internal user id directly.
type Principal struct {
	Email      string
	SupabaseID string
	UserID     int64
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// SupabaseLocalVerifier validates Supabase access tokens with the shared
// HS256 project secret, no network round trip.
type SupabaseLocalVerifier struct {
	key jwk.Key
}

func NewSupabaseLocalVerifier(secret string) (*SupabaseLocalVerifier, error) {
	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("import supabase secret: %w", err)
	}

	return &SupabaseLocalVerifier{key: key}, nil
}

func (v *SupabaseLocalVerifier) Verify(
	ctx context.Context,
	tokenString string,
) (*Principal, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), v.key),
		jwt.WithValidate(true),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify supabase token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify supabase token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify supabase token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf(
			"verify supabase token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	return &Principal{
		Email:      strings.ToLower(email),
		SupabaseID: subject,
	}, nil
}

// SupabaseRemoteVerifier introspects the token against the Supabase auth
// API. Used when the project secret is not configured locally.
type SupabaseRemoteVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewSupabaseRemoteVerifier(
	baseURL, anonKey string,
) *SupabaseRemoteVerifier {
	return &SupabaseRemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *SupabaseRemoteVerifier) Verify(
	ctx context.Context,
	tokenString string,
) (*Principal, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		v.baseURL+"/auth/v1/user",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("introspect token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tokenString)
	if v.anonKey != "" {
		req.Header.Set("apikey", v.anonKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspect token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("introspect token: %w", core.ErrTokenInvalid)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"introspect token: unexpected status %d",
			resp.StatusCode,
		)
	}

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("introspect token: decode response: %w", err)
	}

	if body.ID == "" || body.Email == "" {
		return nil, fmt.Errorf(
			"introspect token: incomplete user payload: %w",
			core.ErrTokenInvalid,
		)
	}

	return &Principal{
		Email:      strings.ToLower(body.Email),
		SupabaseID: body.ID,
	}, nil
}

// LegacyVerifier handles tokens this service signs itself for
// email/password accounts. It is both a verifier and the signer behind
// register/login.
type LegacyVerifier struct {
	key    jwk.Key
	issuer string
	expire time.Duration
}

func NewLegacyVerifier(cfg config.AuthConfig) (*LegacyVerifier, error) {
	key, err := jwk.Import([]byte(cfg.LegacyJWTSecret))
	if err != nil {
		return nil, fmt.Errorf("import legacy secret: %w", err)
	}

	return &LegacyVerifier{
		key:    key,
		issuer: cfg.Issuer,
		expire: cfg.LegacyTokenExpire,
	}, nil
}

func (v *LegacyVerifier) Sign(userID int64, email string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Issuer(v.issuer).
		IssuedAt(now).
		Expiration(now.Add(v.expire)).
		Claim("user_id", userID).
		Claim("email", strings.ToLower(email)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), v.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (v *LegacyVerifier) Verify(
	ctx context.Context,
	tokenString string,
) (*Principal, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), v.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify legacy token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify legacy token: %w", core.ErrTokenInvalid)
	}

	var userIDFloat float64
	if err := token.Get("user_id", &userIDFloat); err != nil {
		return nil, fmt.Errorf(
			"verify legacy token: missing user_id claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational on legacy tokens
	_ = token.Get("email", &email)

	return &Principal{
		Email:  strings.ToLower(email),
		UserID: int64(userIDFloat),
	}, nil
}

// VerifierChain tries each verifier in order and returns the first
// success. Expiry from an earlier verifier does not stop a later one
// from accepting the token.
type VerifierChain struct {
	verifiers []TokenVerifier
}

func NewVerifierChain(verifiers ...TokenVerifier) *VerifierChain {
	return &VerifierChain{verifiers: verifiers}
}

func (c *VerifierChain) Verify(
	ctx context.Context,
	token string,
) (*Principal, error) {
	var lastErr error

	for _, v := range c.verifiers {
		principal, err := v.Verify(ctx, token)
		if err == nil {
			return principal, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no verifiers configured: %w", core.ErrTokenInvalid)
	}

	return nil, lastErr
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
