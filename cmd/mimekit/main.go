// Command mimekit reads a message from stdin and writes it back to stdout,
// optionally stripping attachments that match a media-type glob.
//
// Adapted from the teacher's (derat/rendmail) main.go: the same
// flag-driven stdin -> stdout filter shape and -delete-binary/-delete-types
// /-keep-types flags (plus -strict; there is no -fake-now flag), but
// rewriting via the library's parser/
// generator/attachment packages instead of rendmail's own copyMessagePart.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mimekit/mimekit/attachment"
	"github.com/mimekit/mimekit/generator"
	"github.com/mimekit/mimekit/parser"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flag]...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads an email message from stdin and rewrites it to stdout.\n\n")
		flag.PrintDefaults()
	}
	deleteBinary := flag.Bool("delete-binary", false, "Delete common binary attachments from message")
	deleteTypes := flag.String("delete-types", "", "Comma-separated globs of attachment media types to delete")
	keepTypes := flag.String("keep-types", "", "Comma-separated glob overrides for -delete-types")
	strict := flag.Bool("strict", false, "Abort on the first recoverable parse error instead of degrading")
	flag.Parse()

	os.Exit(run(os.Stdin, os.Stdout, *deleteBinary, *deleteTypes, *keepTypes, *strict))
}

func run(stdin io.Reader, stdout io.Writer, deleteBinary bool, deleteTypes, keepTypes string, strict bool) int {
	var del, keep []string
	if deleteBinary {
		if deleteTypes != "" || keepTypes != "" {
			fmt.Fprintln(os.Stderr, "-delete-binary is incompatible with -delete-types and -keep-types")
			return 2
		}
		del, keep = binaryDeleteTypes, binaryKeepTypes
	} else {
		del, keep = splitList(deleteTypes), splitList(keepTypes)
	}

	msg, err := parser.Parse(stdin, parser.Options{Strict: strict})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed parsing message:", err)
		return 1
	}

	if len(del) > 0 {
		for _, att := range attachment.FindAttachments(msg) {
			mtype := att.EffectiveMediaType().Full()
			matched, err := shouldDelete(mtype, del, keep)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Bad media-type glob:", err)
				return 2
			}
			if matched {
				att.Detach()
			}
		}
	}

	if err := generator.Generate(stdout, msg, generator.Options{}); err != nil {
		fmt.Fprintln(os.Stderr, "Failed generating message:", err)
		return 1
	}
	return 0
}

// Binary media type patterns used for -delete-binary.
var binaryDeleteTypes = []string{
	"application/*",
	"audio/*",
	"image/*",
	"video/*",
}

// application/ includes various non-binary types, so keep is used to spare
// the common ones.
var binaryKeepTypes = []string{
	"application/ecmascript",
	"application/javascript",
	"application/json",
	"application/pgp-*",
	"application/pkcs7-signature",
	"application/rtf",
	"application/xml",
	"application/*+json",
	"application/*+xml",
}

// shouldDelete reports whether attachments of type mtype should be deleted,
// given the -delete-types/-keep-types glob lists.
func shouldDelete(mtype string, del, keep []string) (bool, error) {
	for _, dp := range del {
		dm, err := filepath.Match(dp, mtype)
		if err != nil {
			return false, err
		}
		if !dm {
			continue
		}
		for _, kp := range keep {
			km, err := filepath.Match(kp, mtype)
			if err != nil {
				return false, err
			}
			if km {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

// splitList returns items from the supplied comma-separated list.
// Whitespace around items is trimmed and empty items are omitted.
func splitList(list string) []string {
	var items []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}
