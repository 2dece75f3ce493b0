// Command generate_hash prints an Argon2id hash for ADMIN_PASSWORD_HASH.
//
// Usage: go run ./scripts <password>
package main

import (
	"fmt"
	"os"

	"streakbot/internal/features/admin"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: generate_hash <password>")
		os.Exit(1)
	}

	hash, err := admin.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
