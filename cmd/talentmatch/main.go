// Package main provides the entry point for the TalentMatch HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentmatch",
	Short: "TalentMatch HTTP API Server",
	Long:  "TalentMatch scores CVs against job descriptions with Gemini, drafts candidate emails, and answers recruiter questions about uploaded CVs via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
