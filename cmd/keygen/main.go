// AngelaMos | 2026
// main.go

// Command keygen mints the ES256 key pair the API signs tokens with.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/markustips/biblenotelm-backend/internal/auth"
)

func main() {
	privatePath := flag.String(
		"private", "keys/private.pem", "where to write the private key")
	publicPath := flag.String(
		"public", "keys/public.pem", "where to write the public key")
	flag.Parse()

	if err := auth.GenerateKeyPair(*privatePath, *publicPath); err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s and %s\n", *privatePath, *publicPath)
}
