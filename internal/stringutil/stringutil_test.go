package stringutil

import "testing"

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Hello World":         "hello_world",
		"HelloWorld":          "helloworld",
		"UC-TEST-001":         "uc_test_001",
		"some__value":         "some_value",
		"test___case":         "test_case",
		"hello@world!":        "hello_world",
		"already_snake_case":  "already_snake_case",
		"":                    "",
		"test123":             "test123",
		"123test":             "123test",
	}
	for in, want := range cases {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
