package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxDiagnostic != 6 {
		t.Errorf("MaxDiagnostic = %d, want 6", cfg.MaxDiagnostic)
	}
	if cfg.GenTimeout != 45*time.Second {
		t.Errorf("GenTimeout = %s, want 45s", cfg.GenTimeout)
	}
	if cfg.NoColor {
		t.Error("NoColor should default to false")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TUTORIZ_STUDENT_NAME", "Ana")
	t.Setenv("TUTORIZ_GRADE_LEVEL", "8")
	t.Setenv("TUTORIZ_MAX_DIAGNOSTIC", "4")
	t.Setenv("TUTORIZ_GEN_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StudentName != "Ana" {
		t.Errorf("StudentName = %q, want Ana", cfg.StudentName)
	}
	if cfg.GradeLevel != 8 {
		t.Errorf("GradeLevel = %d, want 8", cfg.GradeLevel)
	}
	if cfg.MaxDiagnostic != 4 {
		t.Errorf("MaxDiagnostic = %d, want 4", cfg.MaxDiagnostic)
	}
	if cfg.GenTimeout != 10*time.Second {
		t.Errorf("GenTimeout = %s, want 10s", cfg.GenTimeout)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("TUTORIZ_MAX_DIAGNOSTIC", "0")
	if _, err := Load(); err == nil {
		t.Error("expected MaxDiagnostic 0 to be rejected")
	}
}

func TestValidate_GradeRange(t *testing.T) {
	cfg := &Config{MaxDiagnostic: 6, GenTimeout: time.Second, GradeLevel: 13}
	if err := cfg.Validate(); err == nil {
		t.Error("expected grade 13 to be rejected")
	}
}
