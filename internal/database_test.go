package internal

import (
	"path/filepath"
	"testing"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new file in missing directory",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nested", "sitechat.db")
			},
		},
		{
			name: "in memory",
			path: func(t *testing.T) string { return ":memory:" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenDatabase(tt.path(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			if _, err := db.Exec("INSERT INTO kv (key, value) VALUES ('k', 'v')"); err != nil {
				t.Errorf("kv table not usable: %v", err)
			}
		})
	}
}

func TestOpenDatabase_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitechat.db")

	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	if err := NewStorage(db).Set("gemini_api_key", "AIza"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	db.Close()

	db, err = OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() second open error = %v", err)
	}
	defer db.Close()

	got, err := NewStorage(db).Get("gemini_api_key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "AIza" {
		t.Errorf("Get() after reopen = %q, want AIza", got)
	}
}
