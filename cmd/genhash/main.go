package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"investor-onboarding.backend/pkg/validator"
)

func generatePasswordHash(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	fs.SetOutput(out)
	cost := fs.Int("cost", 12, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: genhash [-cost N] <password>")
	}

	password := fs.Arg(0)
	if !validator.IsStrongPassword(password) {
		_, _ = fmt.Fprintln(out, "warning: password does not satisfy the signup password policy")
	}

	hash, err := generatePasswordHash(password, *cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, _ = fmt.Fprintln(out, hash)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
