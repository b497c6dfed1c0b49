package bytesize

import "testing"

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"plain zero", "0", 0, false},
		{"plain number", "1024", 1024, false},
		{"bytes suffix", "2048B", 2048, false},
		{"kibibytes", "1Ki", 1024, false},
		{"kibibytes long", "1KiB", 1024, false},
		{"mebibytes", "10Mi", 10 * MiB, false},
		{"gibibytes", "1Gi", GiB, false},
		{"tebibytes", "1TiB", TiB, false},
		{"kilobytes", "1KB", 1000, false},
		{"megabytes", "100MB", 100 * MB, false},
		{"gigabytes", "1G", GB, false},
		{"case insensitive", "1gi", GiB, false},
		{"uppercase unit", "1GI", GiB, false},
		{"surrounding whitespace", "  1Gi  ", GiB, false},
		{"space before unit", "1 Gi", GiB, false},
		{"fractional mebibytes", "1.5Mi", ByteSize(1.5 * float64(MiB)), false},
		{"fractional gibibytes", "0.5Gi", ByteSize(0.5 * float64(GiB)), false},
		{"upload limit example", "10Mi", 10 * MiB, false},

		{"empty string", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"unknown unit", "1Xi", 0, true},
		{"negative", "-1Gi", 0, true},
		{"unit without number", "Gi", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseByteSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseByteSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteSize_UnmarshalText(t *testing.T) {
	var b ByteSize
	if err := b.UnmarshalText([]byte("1Gi")); err != nil {
		t.Fatalf("UnmarshalText(1Gi) unexpected error: %v", err)
	}
	if b != GiB {
		t.Errorf("UnmarshalText(1Gi) = %d, want %d", b, GiB)
	}

	if err := b.UnmarshalText([]byte("invalid")); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestByteSize_String(t *testing.T) {
	tests := []struct {
		input ByteSize
		want  string
	}{
		{512, "512B"},
		{2 * KiB, "2.00KiB"},
		{100 * MiB, "100.00MiB"},
		{GiB, "1.00GiB"},
		{ByteSize(1.5 * float64(GiB)), "1.50GiB"},
		{2 * TiB, "2.00TiB"},
	}

	for _, tt := range tests {
		if got := tt.input.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestByteSize_Conversions(t *testing.T) {
	size := GiB
	if got := size.Uint64(); got != 1<<30 {
		t.Errorf("Uint64() = %d, want %d", got, 1<<30)
	}
	if got := size.Int64(); got != 1<<30 {
		t.Errorf("Int64() = %d, want %d", got, 1<<30)
	}
}
