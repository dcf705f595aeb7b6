package domain

import (
	"context"
	"errors"
	"time"
)

// ErrorMarker prefixes every answer string that reports a failure.
const ErrorMarker = "❌ Error:"

// NoDataMessage is shown when a chatbot has not been trained yet.
const NoDataMessage = "Chatbot data not found. Please upload some data first."

// AnswerOutcome classifies how a question was resolved.
type AnswerOutcome string

// Available outcomes.
const (
	OutcomeAnswered          AnswerOutcome = "answered"
	OutcomeNoData            AnswerOutcome = "no_data"
	OutcomeNotFound          AnswerOutcome = "not_found"
	OutcomeInvalidInput      AnswerOutcome = "invalid_input"
	OutcomeModelMismatch     AnswerOutcome = "model_mismatch"
	OutcomeInvalidCredential AnswerOutcome = "invalid_credential"
	OutcomeRateLimited       AnswerOutcome = "rate_limited"
	OutcomeRetrievalFailed   AnswerOutcome = "retrieval_failed"
	OutcomeProviderFailed    AnswerOutcome = "provider_failed"
)

// IsFailure reports whether the outcome carries no usable answer.
func (o AnswerOutcome) IsFailure() bool {
	return o != OutcomeAnswered
}

// Question is one retrieval-augmented query against a chatbot.
type Question struct {
	// Key identifies the chatbot whose index is searched.
	Key ChatbotKey

	// Text is the user's question. Only this text is embedded for retrieval.
	Text string

	// APIKey is the LLM credential for this request.
	APIKey string

	// Persona is prepended to the question in the LLM prompt only.
	Persona *Persona

	// TopK overrides the number of retrieved chunks when positive.
	TopK int
}

// Source is one retrieved chunk supporting an answer.
type Source struct {
	ChunkID  int
	Content  string
	Distance float64
}

// Answer is the typed result of answering a Question.
type Answer struct {
	Outcome AnswerOutcome

	// Text is the LLM's answer when Outcome is OutcomeAnswered.
	Text string

	// Sources are the retrieved chunks, closest first.
	Sources []Source

	// Err is the underlying failure, nil on success.
	Err error
}

// Display collapses the answer into the string shown to end users.
// Failures are prefixed with ErrorMarker.
func (a Answer) Display() string {
	switch a.Outcome {
	case OutcomeAnswered:
		return a.Text
	case OutcomeNoData:
		return ErrorMarker + " " + NoDataMessage
	case OutcomeNotFound:
		return ErrorMarker + " chatbot not found"
	case OutcomeInvalidCredential:
		return ErrorMarker + " the API key was rejected by the language model provider: " + errText(a.Err)
	case OutcomeRateLimited:
		return ErrorMarker + " the language model provider is rate limiting requests, try again shortly: " + errText(a.Err)
	case OutcomeModelMismatch:
		return ErrorMarker + " this chatbot was trained with a different embedding model, retrain it: " + errText(a.Err)
	default:
		return ErrorMarker + " " + errText(a.Err)
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// OutcomeFor maps a pipeline error onto an outcome. A nil error is OutcomeAnswered.
func OutcomeFor(err error) AnswerOutcome {
	switch {
	case err == nil:
		return OutcomeAnswered
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrEmbeddingMismatch), errors.Is(err, ErrDimensionMismatch):
		return OutcomeModelMismatch
	case errors.Is(err, ErrAuthRequired), errors.Is(err, ErrAuthInvalid):
		return OutcomeInvalidCredential
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrIndexCorrupt), errors.Is(err, ErrEmbeddingUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeRetrievalFailed
	default:
		return OutcomeProviderFailed
	}
}

// AnswerRecord is one question/answer pair kept for analytics.
type AnswerRecord struct {
	ID        string
	UserID    int64
	ChatbotID int64
	Question  string
	Answer    string
	Outcome   AnswerOutcome
	CreatedAt time.Time
}
