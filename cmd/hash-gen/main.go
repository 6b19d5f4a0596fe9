package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"tracebloom.backend/pkg/crypto"
)

const passwordEnv = "TRACEBLOOM_SEED_PASSWORD"

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
	getenvFn       = os.Getenv
)

var errNoPassword = errors.New("usage: hash-gen <password> (or set " + passwordEnv + ")")

func resolvePassword(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if p := getenvFn(passwordEnv); p != "" {
		return p, nil
	}
	return "", errNoPassword
}

// generateHash produces a bcrypt hash accepted by password login, checked
// round-trip before it is printed
func generateHash(password string) (string, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return "", err
	}
	if !crypto.CheckPassword(password, hash) {
		return "", errors.New("generated hash does not verify")
	}
	return hash, nil
}

func main() {
	password, err := resolvePassword(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("Bcrypt Hash (cost %d): %s\n", crypto.DefaultCost, hash)
}
