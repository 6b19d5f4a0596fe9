package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// LoginMessagePrefix precedes the nonce in the message a wallet signs to log in
const LoginMessagePrefix = "Sign this message to login to TraceBloom. Nonce: "

const signatureLength = 65

var ErrMalformedSignature = errors.New("malformed signature")

// LoginMessage builds the exact challenge text for a nonce
func LoginMessage(nonce string) string {
	return LoginMessagePrefix + nonce
}

// RecoverPersonalSigner returns the lowercase 0x address that produced an EIP-191
// personal_sign signature over message. The recovery id may be 0/1 or 27/28.
func RecoverPersonalSigner(message, signatureHex string) (string, error) {
	sig, err := hexutil.Decode(strings.TrimSpace(signatureHex))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != signatureLength {
		return "", fmt.Errorf("%w: want %d bytes, got %d", ErrMalformedSignature, signatureLength, len(sig))
	}

	switch sig[64] {
	case 27, 28:
		sig[64] -= 27
	case 0, 1:
	default:
		return "", fmt.Errorf("%w: invalid recovery id %d", ErrMalformedSignature, sig[64])
	}

	pub, err := ethcrypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return strings.ToLower(ethcrypto.PubkeyToAddress(*pub).Hex()), nil
}

// VerifyPersonalSignature reports whether signatureHex over message was made by address
func VerifyPersonalSignature(address, message, signatureHex string) (bool, error) {
	signer, err := RecoverPersonalSigner(message, signatureHex)
	if err != nil {
		return false, err
	}
	return signer == strings.ToLower(strings.TrimSpace(address)), nil
}

// SignPersonalMessage signs message with a hex private key the way wallets do for
// personal_sign, returning a 0x signature with v in {27, 28}
func SignPersonalMessage(privateKeyHex, message string) (string, error) {
	key, err := ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
