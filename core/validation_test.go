package core

import (
	"errors"
	"testing"
)

func TestValidateExtraction(t *testing.T) {
	tests := []struct {
		name       string
		extraction *Extraction
		wantErr    error
	}{
		{
			name:       "valid text",
			extraction: &Extraction{Text: "Hello world."},
			wantErr:    nil,
		},
		{
			name: "valid pages",
			extraction: &Extraction{
				Pages: []Page{{Number: 1, Text: ""}, {Number: 2, Text: "Body"}},
			},
			wantErr: nil,
		},
		{
			name:       "nil extraction",
			extraction: nil,
			wantErr:    ErrExtractionFailed,
		},
		{
			name:       "whitespace only",
			extraction: &Extraction{Text: "  \n\t "},
			wantErr:    ErrEmptyText,
		},
		{
			name: "zero page number",
			extraction: &Extraction{
				Pages: []Page{{Number: 0, Text: "Body"}},
			},
			wantErr: ErrInvalidPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtraction(tt.extraction)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateExtraction() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtraction() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrExtractionFailed) {
				t.Errorf("ValidateExtraction() error = %v, want wrapped ErrExtractionFailed", err)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive("workers", 8); err != nil {
		t.Errorf("ValidatePositive() unexpected error = %v", err)
	}
	for _, v := range []int{0, -3} {
		if err := ValidatePositive("workers", v); !errors.Is(err, ErrConfiguration) {
			t.Errorf("ValidatePositive(%d) error = %v, want ErrConfiguration", v, err)
		}
	}
}
