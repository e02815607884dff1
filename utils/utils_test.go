package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionToken(t *testing.T) {
	token, err := GenerateSessionToken("demo.myshopify.com", "key", "secret", time.Minute)
	require.NoError(t, err)

	shop, err := ValidateSessionToken(token, "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", shop)

	_, err = ValidateSessionToken(token, "other-app", "secret")
	assert.Error(t, err, "audience must match the api key")

	_, err = ValidateSessionToken(token, "key", "wrong")
	assert.Error(t, err)

	expired, err := GenerateSessionToken("demo.myshopify.com", "key", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateSessionToken(expired, "key", "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = GenerateSessionToken("demo.myshopify.com", "key", "", time.Minute)
	assert.Error(t, err)
}

func TestNormalizeShopDomain(t *testing.T) {
	valid := map[string]string{
		"demo":                             "demo.myshopify.com",
		"Demo.myshopify.com":               "demo.myshopify.com",
		"https://demo.myshopify.com":       "demo.myshopify.com",
		"https://demo.myshopify.com/admin": "demo.myshopify.com",
		" my-shop-2.myshopify.com ":        "my-shop-2.myshopify.com",
	}
	for in, want := range valid {
		got, err := NormalizeShopDomain(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "evil.com", "demo.myshopify.com.evil.com", "-bad", "a b"} {
		_, err := NormalizeShopDomain(in)
		assert.Error(t, err, in)
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://app.example.com/auth/callback", JoinURL("https://app.example.com/", "/auth/callback"))
}

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("png-bytes")
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeDataURL("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeDataURL(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeDataURL("data:image/png;base64," + strings.TrimRight(enc, "="))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = DecodeDataURL("data:image/png;base64,")
	assert.Error(t, err)
	_, err = DecodeDataURL("data:image/png;base64,@@@")
	assert.Error(t, err)
}

type fakeS3 struct {
	put *s3.PutObjectInput
	err error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = params
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + *params.Key + "?X-Amz-Signature=abc"}, nil
}

func TestDesignMirror(t *testing.T) {
	fake := &fakeS3{}
	m := &DesignMirror{Bucket: "designs", client: fake, presigner: fake}

	link, err := m.Mirror(context.Background(), "demo.myshopify.com", "logo.png", "image/png", []byte("img"))
	require.NoError(t, err)

	require.NotNil(t, fake.put)
	assert.Equal(t, "designs", *fake.put.Bucket)
	assert.Equal(t, "image/png", *fake.put.ContentType)
	assert.True(t, strings.HasPrefix(*fake.put.Key, "designs/demo.myshopify.com/"))
	assert.True(t, strings.HasSuffix(*fake.put.Key, "_logo.png"))
	assert.Contains(t, link, *fake.put.Key)

	fake.err = assert.AnError
	_, err = m.Mirror(context.Background(), "demo.myshopify.com", "logo.png", "image/png", []byte("img"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDesignKey(t *testing.T) {
	assert.True(t, strings.HasSuffix(DesignKey("s", "../../etc/passwd"), "_passwd"))
	assert.True(t, strings.HasSuffix(DesignKey("s", ""), "_design.png"))
}

type fakeSender struct {
	sent   *mail.SGMailV3
	status int
}

func (f *fakeSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	return &rest.Response{StatusCode: f.status}, nil
}

func TestNotifier(t *testing.T) {
	sender := &fakeSender{status: http.StatusAccepted}
	n := &Notifier{From: mail.NewEmail("Print Labs", "no-reply@printlabs.app"), To: mail.NewEmail("", "owner@example.com"), client: sender}

	require.NoError(t, n.DraftOrderCreated("demo.myshopify.com", "https://invoice", ""))
	require.NotNil(t, sender.sent)
	assert.Equal(t, "New customization request on demo.myshopify.com", sender.sent.Subject)
	assert.Equal(t, "owner@example.com", sender.sent.Personalizations[0].To[0].Address)

	sender.status = http.StatusUnauthorized
	assert.Error(t, n.DraftOrderCreated("demo.myshopify.com", "https://invoice", ""))
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, zap.NewNop(), "Draft Order Failed", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Draft Order Failed"}`, rec.Body.String())
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf.WriteString("called")
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORSMiddleware(LatencyMiddleware(zap.NewNop(), next))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/apps/proxy/customprice", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, buf.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "called", buf.String())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger("nonsense")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
