package api

import "testing"

func TestNormalizeErrorBody(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "string detail used verbatim",
			raw:  `{"detail":"Incorrect email or password"}`,
			want: "Incorrect email or password",
		},
		{
			name: "field errors joined",
			raw:  `{"detail":[{"msg":"value is not a valid email address"},{"msg":"ensure this value has at least 8 characters"}]}`,
			want: "value is not a valid email address, ensure this value has at least 8 characters",
		},
		{
			name: "single field error",
			raw:  `{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"}]}`,
			want: "field required",
		},
		{
			name: "unknown shape falls through",
			raw:  `{"detail":{"weird":true}}`,
			want: "",
		},
		{
			name: "no detail",
			raw:  `{"error":"nope"}`,
			want: "",
		},
		{
			name: "not json",
			raw:  `<html>502 Bad Gateway</html>`,
			want: "",
		},
		{
			name: "empty body",
			raw:  ``,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeErrorBody([]byte(tc.raw)); got != tc.want {
				t.Fatalf("NormalizeErrorBody(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRequestFailedErrorMessage(t *testing.T) {
	withDetail := &RequestFailedError{StatusCode: 422, Detail: "title is too long"}
	if withDetail.Error() != "title is too long" {
		t.Fatalf("unexpected message: %q", withDetail.Error())
	}
	bare := &RequestFailedError{StatusCode: 500}
	if bare.Error() != "request failed: HTTP 500" {
		t.Fatalf("unexpected message: %q", bare.Error())
	}
}
