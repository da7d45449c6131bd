package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

var randomRead = rand.Read

type secret struct {
	env   string
	bytes int
}

// secrets are printed in .env format. The session key must be exactly
// 32 bytes for AES-256.
var secrets = []secret{
	{"JWT_SECRET", 32},
	{"RESET_ENVELOPE_SECRET", 32},
	{"SESSION_ENCRYPTION_KEY", 32},
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(out)
	only := fs.String("only", "", "print a single variable, e.g. JWT_SECRET")
	if err := fs.Parse(args); err != nil {
		return err
	}

	printed := 0
	for _, s := range secrets {
		if *only != "" && *only != s.env {
			continue
		}
		value, err := generateRandomHex(s.bytes)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", s.env, err)
		}
		_, _ = fmt.Fprintf(out, "%s=%s\n", s.env, value)
		printed++
	}
	if printed == 0 {
		return fmt.Errorf("unknown variable: %s", *only)
	}
	return nil
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := randomRead(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
