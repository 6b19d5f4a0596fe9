package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tracebloom.backend/pkg/crypto"
)

const keyEnv = "TRACEBLOOM_WALLET_KEY"

var (
	printfFn = fmt.Printf
	fatalfFn = log.Fatalf
	getenvFn = os.Getenv
)

var errUsage = errors.New("usage: wallet-sign <nonce> [private-key-hex] (or set " + keyEnv + ")")

// signed is what the verify endpoint needs for one challenge
type signed struct {
	Address   string
	Message   string
	Signature string
}

func resolveArgs(args []string) (nonce, key string, err error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", "", errUsage
	}
	nonce = strings.TrimSpace(args[0])
	if len(args) > 1 {
		key = args[1]
	} else {
		key = getenvFn(keyEnv)
	}
	if strings.TrimSpace(key) == "" {
		return "", "", errUsage
	}
	return nonce, key, nil
}

func sign(nonce, keyHex string) (*signed, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(keyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	message := crypto.LoginMessage(nonce)
	sig, err := crypto.SignPersonalMessage(keyHex, message)
	if err != nil {
		return nil, err
	}
	return &signed{
		Address:   strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex()),
		Message:   message,
		Signature: sig,
	}, nil
}

func main() {
	nonce, key, err := resolveArgs(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	out, err := sign(nonce, key)
	if err != nil {
		fatalfFn("Failed to sign challenge: %v", err)
		return
	}

	printfFn("Address:   %s\n", out.Address)
	printfFn("Message:   %s\n", out.Message)
	printfFn("Signature: %s\n", out.Signature)
}
