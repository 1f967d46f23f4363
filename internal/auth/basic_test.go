package auth

import "testing"

func TestExtractBasicToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantOK  bool
	}{
		{
			name:   "valid basic header",
			header: "Basic QWxhZGRpbjpvcGVuc2VzYW1l",
			want:   "QWxhZGRpbjpvcGVuc2VzYW1l",
			wantOK: true,
		},
		{
			name:   "missing header",
			header: "",
			wantOK: false,
		},
		{
			name:   "bearer scheme",
			header: "Bearer sometoken",
			wantOK: false,
		},
		{
			name:   "lowercase scheme",
			header: "basic QWxhZGRpbjpvcGVuc2VzYW1l",
			wantOK: false,
		},
		{
			name:   "missing space after scheme",
			header: "BasicQWxhZGRpbjpvcGVuc2VzYW1l",
			wantOK: false,
		},
		{
			name:   "prefix only",
			header: "Basic ",
			want:   "",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBasicToken(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("ExtractBasicToken(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractBasicToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		want   string
		wantOK bool
	}{
		{
			name:   "valid base64",
			token:  "QWxhZGRpbjpvcGVuc2VzYW1l",
			want:   "Aladdin:opensesame",
			wantOK: true,
		},
		{
			name:   "invalid base64",
			token:  "not-base64!",
			wantOK: false,
		},
		{
			name:   "empty token",
			token:  "",
			wantOK: false,
		},
		{
			name:   "valid base64 of invalid utf8",
			token:  "/w==", // single 0xFF byte
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeToken(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("DecodeToken(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("DecodeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestSplitCredentials(t *testing.T) {
	tests := []struct {
		name         string
		decoded      string
		wantEmail    string
		wantPassword string
		wantOK       bool
	}{
		{
			name:         "simple pair",
			decoded:      "Aladdin:opensesame",
			wantEmail:    "Aladdin",
			wantPassword: "opensesame",
			wantOK:       true,
		},
		{
			name:         "password containing colons",
			decoded:      "Aladdin:open:sesame",
			wantEmail:    "Aladdin",
			wantPassword: "open:sesame",
			wantOK:       true,
		},
		{
			name:    "no separator",
			decoded: "noseparator",
			wantOK:  false,
		},
		{
			name:    "empty input",
			decoded: "",
			wantOK:  false,
		},
		{
			name:         "empty password",
			decoded:      "user@example.com:",
			wantEmail:    "user@example.com",
			wantPassword: "",
			wantOK:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, password, ok := SplitCredentials(tt.decoded)
			if ok != tt.wantOK {
				t.Fatalf("SplitCredentials(%q) ok = %v, want %v", tt.decoded, ok, tt.wantOK)
			}
			if email != tt.wantEmail || password != tt.wantPassword {
				t.Errorf("SplitCredentials(%q) = (%q, %q), want (%q, %q)",
					tt.decoded, email, password, tt.wantEmail, tt.wantPassword)
			}
		})
	}
}
