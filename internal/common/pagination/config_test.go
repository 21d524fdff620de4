package pagination_test

import (
	"testing"

	"nq-browser/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	cfg := pagination.DefaultConfig()

	if cfg.DefaultPage != 1 {
		t.Errorf("DefaultPage = %d, want 1", cfg.DefaultPage)
	}
	if cfg.DefaultPageSize != 10 {
		t.Errorf("DefaultPageSize = %d, want 10", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
	if cfg.WindowWidth != 5 {
		t.Errorf("WindowWidth = %d, want 5", cfg.WindowWidth)
	}
	if cfg.FallbackDefault {
		t.Error("FallbackDefault = true, want false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want pagination.Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: pagination.DefaultConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"PAGINATION_DEFAULT_PAGE_SIZE":   "25",
				"PAGINATION_MAX_PAGE_SIZE":       "0",
				"PAGINATION_WINDOW_WIDTH":        "7",
				"PAGINATION_FALLBACK_TO_DEFAULT": "true",
			},
			want: pagination.Config{
				DefaultPage:     1,
				DefaultPageSize: 25,
				MaxPageSize:     0,
				WindowWidth:     7,
				FallbackDefault: true,
			},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"PAGINATION_DEFAULT_PAGE_SIZE": "ten",
			},
			want: pagination.DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{
				"PAGINATION_DEFAULT_PAGE_SIZE", "PAGINATION_MAX_PAGE_SIZE",
				"PAGINATION_WINDOW_WIDTH", "PAGINATION_FALLBACK_TO_DEFAULT",
			} {
				t.Setenv(k, tt.env[k])
			}

			got := pagination.LoadFromEnv()
			if got != tt.want {
				t.Errorf("LoadFromEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyEnv_KeepsBaseForUnsetVariables(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_PAGE_SIZE", "")
	t.Setenv("PAGINATION_MAX_PAGE_SIZE", "50")
	t.Setenv("PAGINATION_WINDOW_WIDTH", "")
	t.Setenv("PAGINATION_FALLBACK_TO_DEFAULT", "")

	base := pagination.Config{DefaultPage: 1, DefaultPageSize: 20, MaxPageSize: 200, WindowWidth: 3, FallbackDefault: true}
	got := pagination.ApplyEnv(base)

	want := base
	want.MaxPageSize = 50
	if got != want {
		t.Errorf("ApplyEnv() = %+v, want %+v", got, want)
	}
}
