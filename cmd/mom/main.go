package main

import (
	"fmt"
	"os"

	"mom-generator/cmd/mom/cmd"
	"mom-generator/internal/config"

	// Import providers to register them
	_ "mom-generator/internal/app/api/deepgram"
	_ "mom-generator/internal/app/api/openai/whisper"
)

func main() {
	// Missing keys only warn here; each command checks what it needs
	keys, loaded, err := config.InitializeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	} else if missing := config.RequireKeys(keys); missing != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", missing)
		if loaded == "" {
			fmt.Fprintln(os.Stderr, "Copy .env.example to .env and add your API keys")
		}
	}

	cmd.Execute()
}
