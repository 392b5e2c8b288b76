package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		defaultVal string
		envValue   string
		want       string
	}{
		{
			name:       "Environment variable exists",
			key:        "TEST_KEY_EXISTS",
			defaultVal: "default",
			envValue:   "custom_value",
			want:       "custom_value",
		},
		{
			name:       "Environment variable does not exist",
			key:        "TEST_KEY_NOT_EXISTS",
			defaultVal: "default_value",
			envValue:   "",
			want:       "default_value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		defaultVal int
		envValue   string
		want       int
	}{
		{name: "Valid integer", key: "TEST_INT_VALID", defaultVal: 0, envValue: "42", want: 42},
		{name: "Invalid integer", key: "TEST_INT_INVALID", defaultVal: 10, envValue: "not_a_number", want: 10},
		{name: "Empty value", key: "TEST_INT_EMPTY", defaultVal: 5, envValue: "", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsInt(tt.key, tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if got := getEnvAsDuration("TEST_DURATION", time.Second); got != 45*time.Second {
		t.Errorf("getEnvAsDuration() = %v, want 45s", got)
	}

	t.Setenv("TEST_DURATION_BAD", "soon")
	if got := getEnvAsDuration("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Errorf("getEnvAsDuration() = %v, want default", got)
	}

	t.Setenv("TEST_DURATION_NEG", "-5s")
	if got := getEnvAsDuration("TEST_DURATION_NEG", time.Second); got != time.Second {
		t.Errorf("getEnvAsDuration() = %v, want default for negative", got)
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " alice, ,bob ,")
	if got := getEnvAsList("TEST_LIST"); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("getEnvAsList() = %v", got)
	}
	if got := getEnvAsList("TEST_LIST_UNSET"); len(got) != 0 {
		t.Errorf("getEnvAsList() of unset = %v, want empty", got)
	}
}

func TestLoad(t *testing.T) {
	os.Unsetenv("ROUND_DURATION")
	t.Setenv("ADMIN_PRINCIPALS", "root")
	t.Setenv("HOUSE_ENABLED", "true")
	t.Setenv("HOUSE_PRINCIPAL", "dealer")

	cfg := Load()
	if cfg.RoundDuration != 30*time.Second {
		t.Errorf("RoundDuration = %v, want 30s", cfg.RoundDuration)
	}
	if !cfg.House.Enabled {
		t.Error("House should be enabled")
	}
	if !reflect.DeepEqual(cfg.Admins, []string{"root", "dealer"}) {
		t.Errorf("Admins = %v, want [root dealer]", cfg.Admins)
	}
}
