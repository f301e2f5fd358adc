package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/skillsync/internal/app"
	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long:  "Extract the resume text, run the match prompt, and print the report with course and job recommendations as JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeResume      string
	analyzeJDFile      string
	analyzeJDText      string
	analyzeTemperature float32
	analyzeMaxTokens   int32
	analyzeOutput      string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume (.pdf, .docx or .txt)")
	analyzeCmd.Flags().StringVarP(&analyzeJDFile, "jd", "j", "", "Path to a job description file")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "Job description text")
	analyzeCmd.Flags().Float32Var(&analyzeTemperature, "temperature", -1, "Sampling temperature between 0 and 1 (default from LLM_TEMPERATURE)")
	analyzeCmd.Flags().Int32Var(&analyzeMaxTokens, "max-tokens", 0, "Max output tokens between 100 and 2000 (default from LLM_MAX_TOKENS)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the result JSON to this file instead of stdout")

	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-text")

	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutputDoc struct {
	Report *models.Report    `json:"report"`
	View   models.ReportView `json:"view"`
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	resumeText, err := readResume(analyzeResume)
	if err != nil {
		return err
	}

	jd := analyzeJDText
	if analyzeJDFile != "" {
		data, err := os.ReadFile(analyzeJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jd = string(data)
	}

	opts := services.GenerationOptions{
		Temperature: cfg.LLM.DefaultTemperature,
		MaxTokens:   cfg.LLM.DefaultMaxTokens,
	}
	if analyzeTemperature >= 0 {
		opts.Temperature = analyzeTemperature
	}
	if analyzeMaxTokens > 0 {
		opts.MaxTokens = analyzeMaxTokens
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.Analyzer.Analyze(ctx, services.AnalyzeInput{
		ResumeText:     resumeText,
		JobDescription: jd,
		Options:        opts,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(analyzeOutputDoc{
		Report: result.Report,
		View:   models.NewReportView(result.Report),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if analyzeOutput == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(analyzeOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✅ Report written to %s\n", analyzeOutput)
	return nil
}

// readResume returns "" for an empty path so the analyzer reports the
// missing input itself.
func readResume(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	return services.NewTextExtractor().ExtractText(data, filepath.Base(path), "")
}
