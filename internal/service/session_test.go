package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/log"
)

func TestValidSetupCode(t *testing.T) {
	assert.True(t, ValidSetupCode("123456"))
	assert.True(t, ValidSetupCode("000000"))

	assert.False(t, ValidSetupCode("12345"))
	assert.False(t, ValidSetupCode("1234567"))
	assert.False(t, ValidSetupCode("12345a"))
	assert.False(t, ValidSetupCode(""))
	assert.False(t, ValidSetupCode("12 456"))
}

func TestLoginValidation(t *testing.T) {
	svc := NewSessionService(nil, log.NullLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Login(ctx, "", "secret"), ErrUsernameRequired)
	assert.ErrorIs(t, svc.Login(ctx, "   ", "secret"), ErrUsernameRequired)
	assert.ErrorIs(t, svc.Login(ctx, "alex", ""), ErrPasswordRequired)
}

func TestSignupValidation(t *testing.T) {
	svc := NewSessionService(nil, log.NullLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Signup(ctx, "alex", "pw", "pw", "12345"), ErrSetupCodeIncomplete)
	assert.ErrorIs(t, svc.Signup(ctx, "", "pw", "pw", "123456"), ErrUsernameRequired)
	assert.ErrorIs(t, svc.Signup(ctx, "alex", "", "", "123456"), ErrPasswordRequired)
	assert.ErrorIs(t, svc.Signup(ctx, "alex", "pw", "other", "123456"), ErrPasswordMismatch)
}

func TestPollInterval(t *testing.T) {
	svc := NewSessionService(nil, log.NullLogger())

	assert.Equal(t, 10*time.Second, svc.PollInterval(api.InitStateLogin))
	assert.Equal(t, 5*time.Second, svc.PollInterval(api.InitStateCreateFirstUser))
	assert.Equal(t, time.Duration(0), svc.PollInterval(api.InitStateReady))
}
