package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/botly/internal/core/domain"
)

var errTrainingServiceMissing = errors.New("training service not configured")

var (
	trainFile     string
	trainURL      string
	trainMaxPages int
	trainDelay    time.Duration
	trainBudget   time.Duration
)

var trainCmd = &cobra.Command{
	Use:   "train [chatbot-id]",
	Short: "Train a chatbot on a file or website",
	Long: `Extracts text from a file and/or a website, splits it into chunks, embeds
them and replaces the chatbot's index.

Supported files: .pdf, .docx, .txt, .md, .html
Websites are crawled on the start URL's host only.

When both --file and --url are given, the file text comes first.
The previous index stays live until the new one is complete.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&trainFile, "file", "f", "", "document to train on")
	trainCmd.Flags().StringVar(&trainURL, "url", "", "website start URL to crawl")
	trainCmd.Flags().IntVar(&trainMaxPages, "max-pages", 0, "maximum pages to crawl (0 = configured default)")
	trainCmd.Flags().DurationVar(&trainDelay, "delay", 0, "minimum delay between page fetches")
	trainCmd.Flags().DurationVar(&trainBudget, "budget", 0, "total crawl time budget (0 = none)")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	if trainingService == nil {
		return errTrainingServiceMissing
	}

	key, err := parseChatbotKey(args[0])
	if err != nil {
		return err
	}

	if trainFile == "" && trainURL == "" {
		return fmt.Errorf("one of --file or --url is required: %w", domain.ErrInvalidInput)
	}

	req := trainRequest(cmd, key, trainFile, trainURL)
	if req.Website != "" {
		cmd.Printf("Crawling %s...\n", req.Website)
	}
	if req.File != "" {
		cmd.Printf("Reading %s...\n", req.File)
	}

	result, err := trainingService.Train(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	printTrainResult(cmd, key, result)
	return nil
}

// trainRequest builds a request from the crawl flags.
func trainRequest(cmd *cobra.Command, key domain.ChatbotKey, file, url string) domain.TrainRequest {
	crawl := domain.CrawlOptions{
		MaxPages: trainMaxPages,
		Delay:    trainDelay,
		Budget:   trainBudget,
	}
	// An explicit zero delay disables spacing; an unset one takes the default.
	if cmd.Flags().Changed("delay") && trainDelay == 0 {
		crawl.Delay = -1
	}
	return domain.TrainRequest{Key: key, File: file, Website: url, Crawl: crawl}
}

func printTrainResult(cmd *cobra.Command, key domain.ChatbotKey, result *domain.TrainResult) {
	cmd.Printf("Trained chatbot %d\n", key.ChatbotID)
	if result.Pages > 0 {
		cmd.Printf("  Pages:      %d\n", result.Pages)
	}
	cmd.Printf("  Characters: %d\n", result.Characters)
	cmd.Printf("  Chunks:     %d\n", result.Chunks)
	cmd.Printf("  Model:      %s (%d dimensions)\n", result.Model, result.Dimensions)
	cmd.Printf("  Took:       %s\n", result.Duration.Round(time.Millisecond))
	if result.Truncated {
		cmd.Println("  Note: the crawl budget ran out before every page was fetched.")
	}
}
