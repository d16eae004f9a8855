package fuelabi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestConfigurables(t *testing.T) {
	prog := loadShowcase(t)

	configs := prog.Configurables()
	if len(configs) != 3 {
		t.Fatalf("Expected 3 configurables, got %d", len(configs))
	}
	if configs[0].Name() != "FEE" || configs[1].Name() != "ADMIN" || configs[2].Name() != "NAME" {
		t.Errorf("Expected declaration order FEE, ADMIN, NAME")
	}

	fee, err := prog.Configurable("FEE")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fee.Offset() != 16 {
		t.Errorf("Expected offset 16, got %d", fee.Offset())
	}
	if fee.Type().Kind() != KindU8 {
		t.Errorf("Expected u8, got %s", fee.Type().Kind())
	}
	if fee.Declaration().ConfigurableType.Type != 2 {
		t.Errorf("Expected declared type 2, got %d", fee.Declaration().ConfigurableType.Type)
	}

	_, err = prog.Configurable("MISSING")
	var notFound *ConfigurableNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected ConfigurableNotFoundError, got %v", err)
	}
}

func TestSetConfigurables(t *testing.T) {
	prog := loadShowcase(t)
	bytecode := make([]byte, 64)
	admin := common.HexToHash("0xabcdef")

	patched, err := prog.SetConfigurables(bytecode, map[string]any{
		"FEE":   5,
		"ADMIN": admin,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !bytes.Equal(bytecode, make([]byte, 64)) {
		t.Error("Expected input bytecode to be untouched")
	}
	if patched[16] != 5 {
		t.Errorf("Expected FEE byte 5, got %d", patched[16])
	}
	if !bytes.Equal(patched[24:56], admin.Bytes()) {
		t.Errorf("Expected ADMIN at offset 24, got %x", patched[24:56])
	}

	t.Run("read back", func(t *testing.T) {
		fee, err := prog.ReadConfigurable(patched, "FEE")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if fee != uint8(5) {
			t.Errorf("Expected 5, got %v", fee)
		}
		got, err := prog.ReadConfigurable(patched, "ADMIN")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != admin {
			t.Errorf("Expected %v, got %v", admin, got)
		}
	})
}

func TestSetConfigurablesErrors(t *testing.T) {
	prog := loadShowcase(t)
	bytecode := make([]byte, 64)

	tests := []struct {
		name     string
		bytecode []byte
		values   map[string]any
		check    func(t *testing.T, err error)
	}{
		{
			name:     "unknown name",
			bytecode: bytecode,
			values:   map[string]any{"MISSING": 1},
			check: func(t *testing.T, err error) {
				var notFound *ConfigurableNotFoundError
				if !errors.As(err, &notFound) || notFound.Name != "MISSING" {
					t.Errorf("Expected ConfigurableNotFoundError for MISSING, got %v", err)
				}
			},
		},
		{
			name:     "dynamic type",
			bytecode: bytecode,
			values:   map[string]any{"NAME": "fuel"},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrDynamicConfigurable) {
					t.Errorf("Expected ErrDynamicConfigurable, got %v", err)
				}
			},
		},
		{
			name:     "value does not fit",
			bytecode: bytecode,
			values:   map[string]any{"FEE": 1000},
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurableError
				if !errors.As(err, &cfgErr) || cfgErr.Name != "FEE" {
					t.Fatalf("Expected ConfigurableError for FEE, got %v", err)
				}
				if !errors.Is(err, ErrEncode) {
					t.Error("Expected error to wrap ErrEncode")
				}
			},
		},
		{
			name:     "bytecode too short",
			bytecode: make([]byte, 40),
			values:   map[string]any{"ADMIN": common.Hash{}},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrConfigurableOutOfRange) {
					t.Errorf("Expected ErrConfigurableOutOfRange, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := prog.SetConfigurables(tt.bytecode, tt.values)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if out != nil {
				t.Error("Expected no output on error")
			}
			tt.check(t, err)
		})
	}
}

func TestReadConfigurableErrors(t *testing.T) {
	prog := loadShowcase(t)

	t.Run("offset past the end", func(t *testing.T) {
		_, err := prog.ReadConfigurable(make([]byte, 8), "FEE")
		if !errors.Is(err, ErrConfigurableOutOfRange) {
			t.Errorf("Expected ErrConfigurableOutOfRange, got %v", err)
		}
	})

	t.Run("value truncated", func(t *testing.T) {
		_, err := prog.ReadConfigurable(make([]byte, 30), "ADMIN")
		if !errors.Is(err, ErrDecode) {
			t.Errorf("Expected ErrDecode, got %v", err)
		}
	})

	t.Run("dynamic type", func(t *testing.T) {
		_, err := prog.ReadConfigurable(make([]byte, 128), "NAME")
		if !errors.Is(err, ErrDynamicConfigurable) {
			t.Errorf("Expected ErrDynamicConfigurable, got %v", err)
		}
	})
}

func TestContainsDynamic(t *testing.T) {
	g := loadShowcase(t).Graph()

	tests := []struct {
		id      int
		dynamic bool
	}{
		{1, false},
		{6, false},
		{13, false},
		{14, true},
		{15, true},
		{20, true},
	}

	for _, tt := range tests {
		if got := containsDynamic(g.MustLookup(tt.id)); got != tt.dynamic {
			t.Errorf("Expected containsDynamic(%d) to be %v, got %v", tt.id, tt.dynamic, got)
		}
	}
}
