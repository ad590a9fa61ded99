// createkey generates a random API key for the matching API. The server
// reads the key from the API_KEY environment variable; there is no key
// store, so keep the printed value somewhere safe.
package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	// Character set: uppercase letters, lowercase letters, and numbers
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const keyLength = 32

	// Calculate charset length and rejection sampling threshold
	charsetLen := len(charset)
	// Use rejection sampling to avoid modulo bias
	// Calculate the largest multiple of charsetLen that fits in a byte (0-255)
	// This ensures uniform distribution across all characters
	maxValidByte := byte((255 / charsetLen) * charsetLen)

	// Build the API key by selecting random characters from the charset
	apiKeyBytes := make([]byte, keyLength)
	randomByte := make([]byte, 1)
	for i := range apiKeyBytes {
		// Use rejection sampling: keep generating until we get a value < maxValidByte
		for {
			if _, err := rand.Read(randomByte); err != nil {
				slog.Error("Failed to generate random API key", "error", err)
				os.Exit(1)
			}
			if randomByte[0] < maxValidByte {
				apiKeyBytes[i] = charset[int(randomByte[0])%charsetLen]
				break
			}
		}
	}

	apiKey := string(apiKeyBytes)

	fmt.Println("✓ API key ready!")
	fmt.Println()
	fmt.Println("API Key (use this in your requests):", apiKey)
	fmt.Println()
	fmt.Println("Start the server with it:")
	fmt.Println()
	fmt.Printf("export API_KEY=%s\n", apiKey)
	fmt.Println()
	fmt.Println("Example curl commands:")
	fmt.Println()
	fmt.Printf("# Match a startup against the investor catalog\n")
	fmt.Printf("curl -X POST -H \"Authorization: Bearer %s\" -H \"Content-Type: application/json\" \\\n", apiKey)
	fmt.Printf("  -d '{\"startup_description\":\"AI tooling for fintech teams\",\"raise_amount\":500000,\"stage\":\"Seed\"}' \\\n")
	fmt.Printf("  http://localhost:8080/api/v1/matching/investors\n")
	fmt.Println()
	fmt.Printf("# Browse the catalog\n")
	fmt.Printf("curl -H \"Authorization: Bearer %s\" \"http://localhost:8080/api/v1/matching/all?stage=Seed&limit=20\"\n", apiKey)
}
