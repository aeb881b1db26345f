package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    bool
		message string
	}{
		{"empty", "", false, MsgEmailRequired},
		{"whitespace only", "   ", false, MsgEmailRequired},
		{"tab and newline", "\t\n", false, MsgEmailRequired},
		{"no dot after at", "a@b", false, MsgEmailFormat},
		{"no at", "ab.com", false, MsgEmailFormat},
		{"two ats", "a@b@c.com", false, MsgEmailFormat},
		{"inner space", "a b@c.com", false, MsgEmailFormat},
		{"leading space", " a@b.com", false, MsgEmailFormat},
		{"empty local part", "@b.com", false, MsgEmailFormat},
		{"no-break space in local part", "a\u00a0b@c.com", false, MsgEmailFormat},
		{"em space in domain", "a@b\u2003c.com", false, MsgEmailFormat},
		{"ideographic space in tld", "a@b.c\u3000om", false, MsgEmailFormat},
		{"line separator", "a\u2028b@c.com", false, MsgEmailFormat},
		{"byte order mark", "\ufeffa@b.com", false, MsgEmailFormat},
		{"vertical tab", "a\vb@c.com", false, MsgEmailFormat},
		{"unicode whitespace only", "\u00a0\u3000", false, MsgEmailRequired},
		{"valid", "a@b.com", true, ""},
		{"valid subdomain", "test@mail.example.com", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.email)
			assert.Equal(t, tt.want, got.Valid)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
		message  string
	}{
		{"empty", "", false, MsgPasswordRequired},
		{"whitespace only", "      ", false, MsgPasswordRequired},
		{"five chars", "12345", false, MsgPasswordTooShort},
		{"six chars boundary", "123456", true, ""},
		{"long", "a-much-longer-password", true, ""},
		{"multibyte runes counted once", "密碼密碼密碼", true, ""},
		{"five multibyte runes", "密碼密碼密", false, MsgPasswordTooShort},
		{"no complexity rules", "aaaaaa", true, ""},
		{"unicode whitespace only", "\u00a0\u2003\ufeff\u3000\u00a0\u00a0", false, MsgPasswordRequired},
		{"astral runes counted once", "😀😀😀😀😀😀", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePassword(tt.password)
			assert.Equal(t, tt.want, got.Valid)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestValidateLoginForm(t *testing.T) {
	t.Run("both invalid reports both", func(t *testing.T) {
		got := ValidateLoginForm(LoginForm{Email: "", Password: "123"})
		assert.False(t, got.Valid)
		assert.Equal(t, map[string]string{
			FieldEmail:    MsgEmailRequired,
			FieldPassword: MsgPasswordTooShort,
		}, got.Errors)
	})

	t.Run("only password invalid", func(t *testing.T) {
		got := ValidateLoginForm(LoginForm{Email: "test@example.com", Password: ""})
		assert.False(t, got.Valid)
		assert.Equal(t, map[string]string{FieldPassword: MsgPasswordRequired}, got.Errors)
	})

	t.Run("valid", func(t *testing.T) {
		got := ValidateLoginForm(LoginForm{Email: "test@example.com", Password: "123456"})
		assert.True(t, got.Valid)
		assert.Empty(t, got.Errors)
	})
}
