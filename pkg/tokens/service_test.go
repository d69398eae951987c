package tokens

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()

	svc, err := NewService(testSecret)
	require.NoError(t, err)
	svc.Now = func() time.Time { return now }
	return svc
}

func TestService_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	tests := []struct {
		name   string
		claims Claims
	}{
		{name: "plain user", claims: Claims{Subject: "a@x.com"}},
		{name: "operator", claims: Claims{Subject: "op@x.com", Admin: true, AdminLevel: 1}},
		{name: "full admin", claims: Claims{Subject: "admin@example.com", Admin: true, AdminLevel: 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token, exp, err := svc.Issue(tt.claims, 15*time.Minute)
			require.NoError(t, err)
			assert.Equal(t, now.Add(15*time.Minute), exp)

			got, err := svc.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.claims, got.Identity())
			require.NotNil(t, got.ExpiresAt)
			assert.Equal(t, exp.Unix(), got.ExpiresAt.Unix())
		})
	}
}

func TestService_Issue_DefaultTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	_, exp, err := svc.Issue(Claims{Subject: "a@x.com"}, 0)
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultUserTTL), exp)
}

func TestService_Verify_Expiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 500, time.UTC)
	ttl := 30 * time.Minute

	svc := newTestService(t, issuedAt)
	token, _, err := svc.Issue(Claims{Subject: "a@x.com"}, ttl)
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{name: "just issued", at: issuedAt, valid: true},
		{name: "one second before expiry", at: issuedAt.Add(ttl - time.Second), valid: true},
		{name: "at expiry", at: issuedAt.Add(ttl), valid: false},
		{name: "after expiry", at: issuedAt.Add(ttl + time.Millisecond), valid: false},
		{name: "a day later", at: issuedAt.Add(24 * time.Hour), valid: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := newTestService(t, tt.at)
			_, err := checker.Verify(token)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		})
	}
}

func TestService_Verify_TamperedPayload(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	token, _, err := svc.Issue(Claims{Subject: "a@x.com", Admin: true, AdminLevel: 1}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := parts[1]

	for i := range payload {
		repl := byte('A')
		if payload[i] == 'A' {
			repl = 'B'
		}
		tampered := payload[:i] + string(repl) + payload[i+1:]
		forged := parts[0] + "." + tampered + "." + parts[2]

		_, err := svc.Verify(forged)
		require.Error(t, err, "position %d", i)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestService_Verify_ElevatedPayloadRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())
	token, _, err := svc.Issue(Claims{Subject: "a@x.com"}, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	forgedPayload, err := json.Marshal(map[string]any{
		"sub":         "a@x.com",
		"admin":       true,
		"admin_level": 2,
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forgedPayload) + "." + parts[2]
	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestService_Verify_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)
	exp := jwt.NewNumericDate(now.Add(time.Hour))

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", ExpiresAt: exp},
	}).SignedString(otherKey)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", ExpiresAt: exp},
	}).SignedString(testSecret)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		Admin: true, AdminLevel: 2,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", ExpiresAt: exp},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "two segments", token: "a.b"},
		{name: "bad base64", token: "!!!.???.***"},
		{name: "wrong secret", token: wrongKey},
		{name: "hs512", token: hs512},
		{name: "alg none", token: none},
		{name: "missing exp", token: noExp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestService_WireFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	token, _, err := svc.Issue(Claims{Subject: "op@x.com", Admin: true, AdminLevel: 1}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotContains(t, p, "=")
	}

	rawHeader, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]any
	require.NoError(t, json.Unmarshal(rawHeader, &header))
	assert.Equal(t, "HS256", header["alg"])

	rawPayload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rawPayload, &payload))

	assert.Equal(t, "op@x.com", payload["sub"])
	assert.Equal(t, true, payload["admin"])
	assert.EqualValues(t, 1, payload["admin_level"])
	assert.EqualValues(t, now.Add(time.Hour).Unix(), payload["exp"])
}

func TestService_VerifiesForeignHS256(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         "admin@example.com",
		"admin":       true,
		"admin_level": 2,
		"exp":         now.Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Claims{Subject: "admin@example.com", Admin: true, AdminLevel: 2}, got.Identity())
}

func TestNewService_ShortSecret(t *testing.T) {
	t.Parallel()

	svc, err := NewService([]byte("short"))
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrWeakSecret)
}
