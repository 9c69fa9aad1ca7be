package provider_test

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/segmentio/aws-mfa/provider"
)

var inputBuffer = &bytes.Buffer{}

func init() {
	provider.PromptIn = inputBuffer
	provider.PromptOut = ioutil.Discard
}

func TestPrompt(t *testing.T) {
	inputBuffer.Reset()
	inputBuffer.Write([]byte("input\nnext\n"))

	capture, err := provider.Prompt("test string", false)
	if err != nil {
		t.Errorf("Got unexpected error from prompt: %s", err)
	}
	if capture != "input" {
		t.Errorf("Got unexpected input from prompt: %s", capture)
	}

	capture, err = provider.Prompt("test string", true)
	if err != nil {
		t.Errorf("Got unexpected error from prompt: %s", err)
	}
	if capture != "next" {
		t.Errorf("Got unexpected input from second prompt: %s", capture)
	}
}

type mfaTest struct {
	name  string
	input string
	code  string
	err   bool
}

func TestMFACode(t *testing.T) {
	tests := []mfaTest{
		mfaTest{
			name:  "valid",
			input: "123456\n",
			code:  "123456",
		},
		mfaTest{
			name:  "surrounding spaces",
			input: "  654321 \n",
			code:  "654321",
		},
		mfaTest{
			name:  "no trailing newline",
			input: "111111",
			code:  "111111",
		},
		mfaTest{
			name:  "retry after typo",
			input: "12345\n12e456\n123456\n",
			code:  "123456",
		},
		mfaTest{
			name:  "too many typos",
			input: "1\n2\n3\n123456\n",
			err:   true,
		},
		mfaTest{
			name: "no input",
			err:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inputBuffer.Reset()
			inputBuffer.Write([]byte(tc.input))
			code, err := provider.MFACode("arn:aws:iam::123:mfa/me")
			if tc.err {
				if err == nil {
					t.Errorf("Expected an error, got code %q", code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Got unexpected error: %s", err)
			}
			if code != tc.code {
				t.Errorf("Unexpected code returned: %s (expected %s)", code, tc.code)
			}
		})
	}
}
