package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillsync",
	Short: "Resume to job description matcher",
	Long:  "SkillSync scores a resume against a job description with an LLM, lists skill gaps, and recommends courses and open jobs.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
