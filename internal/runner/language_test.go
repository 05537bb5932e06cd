package runner

import "testing"

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{input: "python", want: LanguagePython},
		{input: "c", want: LanguageC},
		{input: "java", wantErr: true},
		{input: "Python", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguage(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLanguageCompiled(t *testing.T) {
	if LanguagePython.Compiled() {
		t.Error("python should not need a compile step")
	}
	if !LanguageC.Compiled() {
		t.Error("c should need a compile step")
	}
}

func TestDefaultLanguageConfigs(t *testing.T) {
	configs := DefaultLanguageConfigs()
	for _, lang := range []Language{LanguagePython, LanguageC} {
		cfg, ok := configs[lang]
		if !ok {
			t.Fatalf("missing config for %s", lang)
		}
		if cfg.DockerImage == "" || cfg.SourceFile == "" {
			t.Errorf("incomplete config for %s: %+v", lang, cfg)
		}
	}
	if configs[LanguageC].BinaryFile == "" {
		t.Error("c config needs a binary name")
	}
}
