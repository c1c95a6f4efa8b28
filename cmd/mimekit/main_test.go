package main

import (
	"bytes"
	"strings"
	"testing"
)

const mixedMessage = "From: a@x\r\n" +
	"Subject: test\r\n" +
	"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
	"MIME-Version: 1.0\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--b1\r\n" +
	"Content-Type: image/png\r\n" +
	"Content-Disposition: attachment; filename=\"x.png\"\r\n" +
	"\r\n" +
	"PNGDATA\r\n" +
	"--b1--\r\n"

func TestRunPassthrough(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader(mixedMessage), &out, false, "", "", false)
	if code != 0 {
		t.Fatalf("run returned %d", code)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Error("output should still contain the text part")
	}
	if !strings.Contains(out.String(), "PNGDATA") {
		t.Error("output should still contain the attachment when no delete types are given")
	}
}

func TestRunDeletesMatchingBinaryAttachment(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader(mixedMessage), &out, false, "image/*", "", false)
	if code != 0 {
		t.Fatalf("run returned %d", code)
	}
	if strings.Contains(out.String(), "PNGDATA") {
		t.Error("image attachment should have been deleted")
	}
	if !strings.Contains(out.String(), "hello") {
		t.Error("text part should survive")
	}
}

func TestRunDeleteBinaryConflictsWithExplicitTypes(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader(mixedMessage), &out, true, "image/*", "", false)
	if code != 2 {
		t.Fatalf("run returned %d, want 2", code)
	}
}
