package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.N%cfg.W != 0 {
		t.Fatalf("default N=%d not a multiple of default W=%d", cfg.N, cfg.W)
	}
	if !cfg.UseSimulated {
		t.Fatal("expected UseSimulated default to be true")
	}
}

func TestLoadConfigRejectsNonMultiple(t *testing.T) {
	t.Setenv("PLINKO_HINTD_N", "100")
	t.Setenv("PLINKO_HINTD_W", "7")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for N not a multiple of W")
	}
}

func TestLoadConfigStartBlock(t *testing.T) {
	t.Setenv("PLINKO_HINTD_START_BLOCK", "1234")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StartBlock != 1234 {
		t.Fatalf("StartBlock = %d, want 1234", cfg.StartBlock)
	}
}

func TestLoadConfigRejectsBadStartBlock(t *testing.T) {
	t.Setenv("PLINKO_HINTD_START_BLOCK", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for non-numeric start block")
	}
}

func TestParseMasterKey(t *testing.T) {
	t.Setenv("PLINKO_HINTD_MASTER_KEY", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MasterKey[0] != 0x00 || cfg.MasterKey[1] != 0x01 {
		t.Fatalf("unexpected decoded master key: %v", cfg.MasterKey[:4])
	}
}

func TestParseMasterKeyRejectsBadLength(t *testing.T) {
	t.Setenv("PLINKO_HINTD_MASTER_KEY", "deadbeef")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for short master key")
	}
}
