package domain

import "time"

// TrainRequest asks for a chatbot's index to be rebuilt from new data.
// At least one of File or Website must be set.
type TrainRequest struct {
	Key ChatbotKey

	// File is a local document path.
	File string

	// Website is a start URL crawled on the same host.
	Website string

	// Crawl bounds the website crawl. Zero values take defaults.
	Crawl CrawlOptions
}

// Validate checks the request is answerable.
func (r TrainRequest) Validate() error {
	if err := r.Key.Validate(); err != nil {
		return err
	}
	if r.File == "" && r.Website == "" {
		return ErrInvalidInput
	}
	return nil
}

// DataSource returns the locator recorded against the chatbot.
// The website wins when both are given.
func (r TrainRequest) DataSource() (string, DataType) {
	if r.Website != "" {
		return r.Website, DataTypeWebsite
	}
	return r.File, DataTypeFile
}

// TrainResult summarises a completed training run.
type TrainResult struct {
	Chunks     int
	Characters int
	Pages      int
	Model      string
	Dimensions int
	Duration   time.Duration

	// Truncated is set when the crawl budget cut the website crawl short.
	Truncated bool
}
