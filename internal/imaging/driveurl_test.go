package imaging

import "testing"

func TestNormalizeDriveURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "share link",
			in:   "https://drive.google.com/file/d/1AbC_dEf-123/view?usp=sharing",
			want: "https://drive.google.com/uc?export=view&id=1AbC_dEf-123",
		},
		{
			name: "short d link",
			in:   "https://drive.google.com/d/1AbC_dEf-123/view",
			want: "https://drive.google.com/uc?export=view&id=1AbC_dEf-123",
		},
		{
			name: "open link with id param",
			in:   "https://drive.google.com/open?id=1AbC_dEf-123",
			want: "https://drive.google.com/uc?export=view&id=1AbC_dEf-123",
		},
		{
			name: "already direct view",
			in:   "https://drive.google.com/uc?export=view&id=1AbC_dEf-123",
			want: "https://drive.google.com/uc?export=view&id=1AbC_dEf-123",
		},
		{
			name: "non-drive url untouched",
			in:   "https://example.com/images/myers.jpg",
			want: "https://example.com/images/myers.jpg",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDriveURL(tt.in); got != tt.want {
				t.Errorf("NormalizeDriveURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
