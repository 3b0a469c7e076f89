package uuid

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "canonical format",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "without hyphens",
			input:   "f47ac10b58cc4372a5670e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "uppercase hex",
			input:   "F47AC10B-58CC-4372-A567-0E02B2C3D479",
			wantErr: false,
		},
		{
			name:    "with URN prefix",
			input:   "urn:uuid:f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "with braces",
			input:   "{f47ac10b-58cc-4372-a567-0e02b2c3d479}",
			wantErr: false,
		},
		{
			name:    "hyphens in nonstandard positions",
			input:   "f47ac10b58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "invalid format - wrong length",
			input:   "f47ac10b-58cc-4372-a567",
			wantErr: true,
		},
		{
			name:    "invalid format - invalid hex",
			input:   "g47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: true,
		},
		{
			name:    "invalid format - 33 hex digits",
			input:   "f47ac10b58cc4372a5670e02b2c3d4790",
			wantErr: true,
		},
		{
			name:    "invalid format - empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "invalid format - hyphens only",
			input:   "--------------------------------",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uuid, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if uuid.IsNil() {
					t.Error("Parse() returned nil UUID for valid input")
				}
				// Verify round-trip
				str := uuid.String()
				uuid2, err := Parse(str)
				if err != nil {
					t.Errorf("Round-trip parse failed: %v", err)
				}
				if uuid != uuid2 {
					t.Errorf("Round-trip UUID mismatch: got %v, want %v", uuid2, uuid)
				}
			}
		})
	}
}

func TestParse_EquivalentForms(t *testing.T) {
	want := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	inputs := []string{
		"f47ac10b-58cc-4372-a567-0e02b2c3d479",
		"F47AC10B-58CC-4372-A567-0E02B2C3D479",
		"f47ac10b58cc4372a5670e02b2c3d479",
		"urn:uuid:f47ac10b-58cc-4372-a567-0e02b2c3d479",
		"{f47ac10b-58cc-4372-a567-0e02b2c3d479}",
	}
	for _, input := range inputs {
		uuid, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", input, err)
			continue
		}
		if uuid != want {
			t.Errorf("Parse(%q) = %v, want %v", input, uuid, want)
		}
	}
}

func TestUUID_String(t *testing.T) {
	testUUID := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	want := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	got := testUUID.String()
	if got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}

	if got := Nil.String(); got != "00000000-0000-0000-0000-000000000000" {
		t.Errorf("Nil.String() = %v", got)
	}
}

func TestUUID_CompactString(t *testing.T) {
	testUUID := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	want := "f47ac10b58cc4372a5670e02b2c3d479"
	got := testUUID.CompactString()
	if got != want {
		t.Errorf("CompactString() = %v, want %v", got, want)
	}

	// The compact form is the canonical form minus hyphens, and parses back
	// to the same UUID.
	if got != strings.ReplaceAll(testUUID.String(), "-", "") {
		t.Error("CompactString() disagrees with String()")
	}
	uuid2, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse(compact) error = %v", err)
	}
	if uuid2 != testUUID {
		t.Errorf("Parse(compact) = %v, want %v", uuid2, testUUID)
	}
}

func TestFromBits(t *testing.T) {
	tests := []struct {
		name string
		msb  uint64
		lsb  uint64
		want string
	}{
		{
			name: "typical v4",
			msb:  0x550e8400e29b41d4,
			lsb:  0xa716446655440000,
			want: "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name: "typical v4 second",
			msb:  0xf47ac10b58cc4372,
			lsb:  0xa5670e02b2c3d479,
			want: "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		},
		{
			name: "zero halves",
			msb:  0,
			lsb:  0,
			want: "00000000-0000-0000-0000-000000000000",
		},
		{
			name: "all ones",
			msb:  0xFFFFFFFFFFFFFFFF,
			lsb:  0xFFFFFFFFFFFFFFFF,
			want: "ffffffff-ffff-ffff-ffff-ffffffffffff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uuid := FromBits(tt.msb, tt.lsb)
			if got := uuid.String(); got != tt.want {
				t.Errorf("FromBits() = %v, want %v", got, tt.want)
			}
			if got := uuid.MostSignificantBits(); got != tt.msb {
				t.Errorf("MostSignificantBits() = %#x, want %#x", got, tt.msb)
			}
			if got := uuid.LeastSignificantBits(); got != tt.lsb {
				t.Errorf("LeastSignificantBits() = %#x, want %#x", got, tt.lsb)
			}
		})
	}
}

func TestBitsRoundTrip(t *testing.T) {
	uuid := MustParse("550e8400-e29b-41d4-a716-446655440000")
	if got := FromBits(uuid.MostSignificantBits(), uuid.LeastSignificantBits()); got != uuid {
		t.Errorf("FromBits(msb, lsb) = %v, want %v", got, uuid)
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"550e8400e29b41d4a716446655440000",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		"{550E8400-E29B-41D4-A716-446655440000}",
	}
	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"not-a-uuid",
		"550e8400-e29b-41d4-a716-44665544000",
		"550e8400-e29b-41d4-a716-4466554400000",
		"zzze8400-e29b-41d4-a716-446655440000",
	}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestUUID_IsNil(t *testing.T) {
	nilUUID := Nil
	if !nilUUID.IsNil() {
		t.Error("Nil UUID should return true for IsNil()")
	}

	nonNilUUID := UUID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if nonNilUUID.IsNil() {
		t.Error("Non-nil UUID should return false for IsNil()")
	}
}

func TestUUID_MarshalUnmarshalText(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}

	// Marshal
	text, err := uuid.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}

	// Unmarshal
	var uuid2 UUID
	err = uuid2.UnmarshalText(text)
	if err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}

	if uuid != uuid2 {
		t.Errorf("Marshal/Unmarshal mismatch: got %v, want %v", uuid2, uuid)
	}
}

func TestUUID_MarshalUnmarshalBinary(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}

	// Marshal
	data, err := uuid.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	if len(data) != 16 {
		t.Errorf("MarshalBinary() length = %d, want 16", len(data))
	}

	// Unmarshal
	var uuid2 UUID
	err = uuid2.UnmarshalBinary(data)
	if err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}

	if uuid != uuid2 {
		t.Errorf("Marshal/Unmarshal mismatch: got %v, want %v", uuid2, uuid)
	}

	// Wrong lengths are rejected
	var uuid3 UUID
	if err := uuid3.UnmarshalBinary(data[:15]); err != ErrInvalidLength {
		t.Errorf("UnmarshalBinary(15 bytes) error = %v, want ErrInvalidLength", err)
	}
	if err := uuid3.UnmarshalBinary(append(data, 0x00)); err != ErrInvalidLength {
		t.Errorf("UnmarshalBinary(17 bytes) error = %v, want ErrInvalidLength", err)
	}
}

func TestUUID_JSON(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}

	type TestStruct struct {
		ID UUID `json:"id"`
	}

	ts := TestStruct{ID: uuid}

	// Marshal
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	// Unmarshal
	var ts2 TestStruct
	err = json.Unmarshal(data, &ts2)
	if err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if ts.ID != ts2.ID {
		t.Errorf("JSON Marshal/Unmarshal mismatch: got %v, want %v", ts2.ID, ts.ID)
	}
}

func TestUUID_Compare(t *testing.T) {
	uuid1 := UUID{0x01}
	uuid2 := UUID{0x02}
	uuid3 := UUID{0x01}

	if uuid1.Compare(uuid2) != -1 {
		t.Error("uuid1 should be less than uuid2")
	}

	if uuid2.Compare(uuid1) != 1 {
		t.Error("uuid2 should be greater than uuid1")
	}

	if uuid1.Compare(uuid3) != 0 {
		t.Error("uuid1 should be equal to uuid3")
	}

	// Ordering matches unsigned comparison of the 64-bit halves: the most
	// significant halves decide, the least significant halves break ties.
	a := FromBits(0x0000000000000001, 0xFFFFFFFFFFFFFFFF)
	b := FromBits(0x0000000000000002, 0x0000000000000000)
	if a.Compare(b) != -1 {
		t.Error("smaller msb should order first regardless of lsb")
	}
	c := FromBits(0x0000000000000001, 0x0000000000000000)
	if c.Compare(a) != -1 {
		t.Error("equal msb should fall back to lsb ordering")
	}
	// The top bit must compare as unsigned, not signed.
	d := FromBits(0x8000000000000000, 0)
	e := FromBits(0x7FFFFFFFFFFFFFFF, 0)
	if d.Compare(e) != 1 {
		t.Error("msb with high bit set should order after all smaller values")
	}
}

func TestUUID_Equal(t *testing.T) {
	uuid1 := UUID{0x01, 0x02, 0x03}
	uuid2 := UUID{0x01, 0x02, 0x03}
	uuid3 := UUID{0x03, 0x02, 0x01}

	if !uuid1.Equal(uuid2) {
		t.Error("uuid1 should equal uuid2")
	}

	if uuid1.Equal(uuid3) {
		t.Error("uuid1 should not equal uuid3")
	}
}

func TestUUID_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantErr bool
	}{
		{
			name:    "string input",
			input:   "f47ac10b-58cc-4372-a567-0e02b2c3d479",
			wantErr: false,
		},
		{
			name:    "byte slice input - 16 bytes",
			input:   []byte{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79},
			wantErr: false,
		},
		{
			name:    "byte slice input - string format",
			input:   []byte("f47ac10b-58cc-4372-a567-0e02b2c3d479"),
			wantErr: false,
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: false,
		},
		{
			name:    "invalid type",
			input:   123,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uuid UUID
			err := uuid.Scan(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUUID_Value(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	val, err := uuid.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	str, ok := val.(string)
	if !ok {
		t.Fatalf("Value() returned non-string type: %T", val)
	}

	expected := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	if str != expected {
		t.Errorf("Value() = %v, want %v", str, expected)
	}
}

func TestUUID_Version(t *testing.T) {
	tests := []struct {
		name  string
		byte6 byte
		want  Version
	}{
		{"version 1", 0x10, VersionTimeBased},
		{"version 3", 0x30, VersionNameBasedMD5},
		{"version 4", 0x40, VersionRandom},
		{"version 5", 0x50, VersionNameBasedSHA1},
		{"version 7", 0x70, VersionTimeSorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uuid UUID
			uuid[6] = tt.byte6
			if got := uuid.Version(); got != tt.want {
				t.Errorf("Version() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUUID_Variant(t *testing.T) {
	tests := []struct {
		name      string
		byte8     byte
		want      Variant
		wantValue byte
	}{
		{"NCS reserved", 0x00, VariantNCS, 0},
		{"NCS high", 0x7F, VariantNCS, 0},
		{"RFC 4122 low", 0x80, VariantRFC4122, 2},
		{"RFC 4122 high", 0xBF, VariantRFC4122, 2},
		{"Microsoft", 0xC0, VariantMicrosoft, 6},
		{"future reserved", 0xE0, VariantFuture, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uuid UUID
			uuid[8] = tt.byte8
			got := uuid.Variant()
			if got != tt.want {
				t.Errorf("Variant() = %v, want %v", got, tt.want)
			}
			if byte(got) != tt.wantValue {
				t.Errorf("Variant() value = %d, want %d", byte(got), tt.wantValue)
			}
		})
	}
}

func TestMustParse(t *testing.T) {
	// Valid UUID should not panic
	uuid := MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if uuid.IsNil() {
		t.Error("MustParse() returned nil UUID")
	}

	// Invalid UUID should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() did not panic on invalid input")
		}
	}()
	MustParse("invalid-uuid")
}

func TestUUID_Bytes(t *testing.T) {
	uuid := UUID{0xf4, 0x7a, 0xc1, 0x0b, 0x58, 0xcc, 0x43, 0x72, 0xa5, 0x67, 0x0e, 0x02, 0xb2, 0xc3, 0xd4, 0x79}
	b := uuid.Bytes()
	if len(b) != 16 {
		t.Errorf("Bytes() length = %d, want 16", len(b))
	}
	if !bytes.Equal(b, uuid[:]) {
		t.Error("Bytes() did not return correct byte slice")
	}

	// fromBytes/toBytes round trip
	uuid2, err := FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if uuid2 != uuid {
		t.Errorf("FromBytes(Bytes()) = %v, want %v", uuid2, uuid)
	}
}
