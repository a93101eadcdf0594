package database

import (
	"strings"
	"testing"

	"github.com/vetrina-ai/vetrina/internal/log"
)

func TestConnString(t *testing.T) {
	cfg := ConnConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "shop",
		Password: "secret",
		Database: "products",
		SSLMode:  "require",
	}

	got := cfg.ConnString()
	want := "host=db.example.com port=5432 user=shop password='secret' dbname=products sslmode=require"
	if got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
}

func TestConnString_EmptyPasswordOmitted(t *testing.T) {
	cfg := ConnConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "shop",
		Password: "",
		Database: "products",
		SSLMode:  "disable",
	}

	got := cfg.ConnString()
	if strings.Contains(got, "password") {
		t.Errorf("ConnString() = %q, empty password must be omitted entirely", got)
	}
}

func TestConnString_QuotesSpecialCharacters(t *testing.T) {
	cfg := ConnConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "shop",
		Password: `it's a=pass\word`,
		Database: "products",
		SSLMode:  "disable",
	}

	got := cfg.ConnString()
	if !strings.Contains(got, `password='it\'s a=pass\\word'`) {
		t.Errorf("ConnString() = %q, special characters not quoted", got)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "no rows",
			result: Result{Columns: []string{"id", "name"}},
			want:   "(no rows)",
		},
		{
			name: "rows rendered as tuples",
			result: Result{
				Columns: []string{"id", "name"},
				Rows:    [][]string{{"1", "chair"}, {"2", "table"}},
			},
			want: "id | name\n(1, chair)\n(2, table)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewExecutor_RequiresLogger(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewExecutor(nil logger) did not panic")
		}
	}()
	NewExecutor(ConnConfig{}, nil)
}

func TestNewExecutor(t *testing.T) {
	e := NewExecutor(ConnConfig{Host: "localhost"}, log.NewNop())
	if e == nil {
		t.Fatal("NewExecutor() returned nil")
	}
}
