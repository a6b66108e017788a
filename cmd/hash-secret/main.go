// Command hash-secret reads the moderator secret from the terminal and
// prints a bcrypt hash suitable for MODERATOR_SECRET_HASH. Using the hash
// keeps the plaintext secret out of the environment.
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/sprtutor/examportal/internal/config"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	cfg := config.Load()

	fmt.Print("Enter moderator secret: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading secret")
		os.Exit(1)
	}
	if len(secret) == 0 {
		fmt.Fprintln(os.Stderr, "Error: secret must not be empty")
		os.Exit(1)
	}

	fmt.Print("Confirm moderator secret: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading confirmation")
		os.Exit(1)
	}
	if string(secret) != string(confirm) {
		fmt.Fprintln(os.Stderr, "Error: secrets do not match")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(secret, cfg.BcryptCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error hashing secret:", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Add to your environment:")
	fmt.Printf("MODERATOR_SECRET_HASH=%s\n", hash)
}
