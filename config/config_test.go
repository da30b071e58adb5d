package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"production without secret", Config{Env: "production"}, true},
		{"blank secret", Config{Env: "production", JwtSecret: "   "}, true},
		{"production with secret", Config{Env: "production", JwtSecret: "s3cret"}, false},
		{"development without secret", Config{Env: "development"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestTokenTTL(t *testing.T) {
	if got := (&Config{JwtExpires: "90m"}).TokenTTL(); got != 90*time.Minute {
		t.Errorf("TokenTTL = %v", got)
	}
	if got := (&Config{JwtExpires: "soon"}).TokenTTL(); got != 24*time.Hour {
		t.Errorf("fallback TokenTTL = %v", got)
	}
}
