package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// Length of generated JWT_SECRET in bytes, enough for HS256
const SecretKeyBytesLen = 32

func main() {
	b := make([]byte, SecretKeyBytesLen)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("JWT_SECRET=%s\n", hex.EncodeToString(b))
}
