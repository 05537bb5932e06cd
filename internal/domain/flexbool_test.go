package domain

import "testing"

func TestFlexBool_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    bool
		wantErr bool
	}{
		{name: "bool true", src: true, want: true},
		{name: "bool false", src: false, want: false},
		{name: "int64 one", src: int64(1), want: true},
		{name: "int64 zero", src: int64(0), want: false},
		{name: "string one", src: "1", want: true},
		{name: "string zero", src: "0", want: false},
		{name: "string true", src: "true", want: true},
		{name: "string TRUE", src: "TRUE", want: true},
		{name: "bytes one", src: []byte("1"), want: true},
		{name: "nil", src: nil, want: false},
		{name: "empty string", src: "", want: false},
		{name: "garbage", src: "maybe", wantErr: true},
		{name: "unsupported type", src: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b FlexBool
			err := b.Scan(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Scan(%v) expected error, got nil", tt.src)
				}
				return
			}
			if err != nil {
				t.Fatalf("Scan(%v) error = %v", tt.src, err)
			}
			if b.Bool() != tt.want {
				t.Errorf("Scan(%v) = %v; want %v", tt.src, b.Bool(), tt.want)
			}
		})
	}
}
