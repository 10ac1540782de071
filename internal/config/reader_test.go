package config

import "testing"

func TestEnvReader_Read(t *testing.T) {
	t.Setenv("ENV", EnvLocal)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("CORS_ORIGINS", "http://a.example.com,http://b.example.com")
	t.Setenv("PUBLIC_BOARD_ENABLED", "true")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "8080" || cfg.JWT.Issuer != "taskboard" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || !cfg.HTTP.PublicBoard {
		t.Errorf("http config = %+v", cfg.HTTP)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Storage: StorageConfig{Driver: StorageMemory}}, false},
		{"mongo without uri", Config{Storage: StorageConfig{Driver: StorageMongo}}, true},
		{"mongo", Config{Storage: StorageConfig{Driver: StorageMongo}, Mongo: MongoConfig{URI: "mongodb://localhost"}}, false},
		{"postgres without host", Config{Storage: StorageConfig{Driver: StoragePostgres}}, true},
		{"unknown driver", Config{Storage: StorageConfig{Driver: "sqlite"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
