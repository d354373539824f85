// Command gensecret prints a random hex key usable as SECRET_KEY
// for signing customer service tokens.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const (
	defaultKeyBytes = 32

	// HS256 hash size
	minKeyBytes = 32
)

func main() {
	if err := run(os.Args[1:], rand.Reader, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, random io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("gensecret", pflag.ContinueOnError)
	size := fs.IntP("bytes", "n", defaultKeyBytes, "Key length in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *size < minKeyBytes {
		return errors.New("key must be at least 32 bytes long")
	}

	b := make([]byte, *size)
	if _, err := io.ReadFull(random, b); err != nil {
		return fmt.Errorf("error while generating secret key: %w", err)
	}

	_, err := fmt.Fprintln(out, hex.EncodeToString(b))
	return err
}
