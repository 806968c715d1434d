package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"rawwealthy.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

// resolveArgs reads [password] [cost]. An unparsable cost falls back to the default.
func resolveArgs(args []string) (string, int) {
	password, cost := "Admin123!", crypto.DefaultCost
	if len(args) > 0 {
		password = args[0]
	}
	if len(args) > 1 {
		if c, err := strconv.Atoi(args[1]); err == nil {
			cost = c
		}
	}
	return password, cost
}

func generateHash(password string, cost int) (string, error) {
	return crypto.HashPasswordWithCost(password, cost)
}

func main() {
	password, cost := resolveArgs(os.Args[1:])

	if violations := crypto.PasswordViolations(password); len(violations) > 0 {
		printfFn("Warning: password would be rejected at registration: %s\n", strings.Join(violations, "; "))
	}

	hash, err := generateHashFn(password, cost)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
	}

	printfFn("Bcrypt Hash (cost %d): %s\n", cost, hash)
}
