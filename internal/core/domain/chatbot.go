package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ChatbotKey scopes all per-chatbot state to its owning user.
type ChatbotKey struct {
	UserID    int64
	ChatbotID int64
}

// String returns "user/chatbot", used for logging and lock names.
func (k ChatbotKey) String() string {
	return fmt.Sprintf("%d/%d", k.UserID, k.ChatbotID)
}

// PathSegments returns the directory names for this key, user first.
func (k ChatbotKey) PathSegments() []string {
	return []string{strconv.FormatInt(k.UserID, 10), strconv.FormatInt(k.ChatbotID, 10)}
}

// Validate returns ErrInvalidInput unless both IDs are positive.
func (k ChatbotKey) Validate() error {
	if k.UserID <= 0 || k.ChatbotID <= 0 {
		return fmt.Errorf("%w: chatbot key %s", ErrInvalidInput, k)
	}
	return nil
}

// Chatbot is a tenant-owned bot trained on one uploaded source.
type Chatbot struct {
	// ID is assigned by the chatbot store.
	ID int64

	// UserID is the owning user.
	UserID int64

	// Name is the display name, also used in the persona preamble.
	Name string

	// Description is an optional one-line persona description.
	Description string

	// Instructions are optional custom instructions for the LLM.
	Instructions string

	// IsPublic marks the chatbot as embeddable without the owner's session.
	IsPublic bool

	// HasData is true once an index has been persisted.
	HasData bool

	// DataSource is the file name or URL of the last upload.
	DataSource string

	// DataType is the kind of the last upload.
	DataType DataType

	// EmbeddingModel is the model tag of the persisted index.
	EmbeddingModel string

	// LastTrained is when the index was last replaced.
	LastTrained *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the workspace key of this chatbot.
func (c *Chatbot) Key() ChatbotKey {
	return ChatbotKey{UserID: c.UserID, ChatbotID: c.ID}
}

// Status returns "active" once the chatbot has data, otherwise "inactive".
func (c *Chatbot) Status() string {
	if c.HasData {
		return "active"
	}
	return "inactive"
}

// Persona returns the prompt persona for this chatbot.
func (c *Chatbot) Persona() *Persona {
	return &Persona{
		Name:         c.Name,
		Description:  c.Description,
		Instructions: c.Instructions,
	}
}

// Persona holds the optional identity fields injected ahead of a question.
type Persona struct {
	Name         string
	Description  string
	Instructions string
}

// DefaultPersonaTemplate is the persona preamble. Its placeholders are the
// name, the description clause and the instructions clause.
const DefaultPersonaTemplate = "You are %s, %s. %sPlease answer the following question based on the provided context and your instructions: "

// DefaultAnswerTemplate is the retrieval-augmented prompt. Its placeholders
// are the joined context chunks and the question.
const DefaultAnswerTemplate = "Use the following pieces of context to answer the question at the end. " +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n" +
	"%s\n\nQuestion: %s\nHelpful Answer:"

// Preamble renders the persona with DefaultPersonaTemplate.
// An empty persona renders as an empty string.
func (p *Persona) Preamble() string {
	return p.Render(DefaultPersonaTemplate)
}

// Render fills a persona template. An empty persona renders as an empty string.
func (p *Persona) Render(template string) string {
	if p == nil || (p.Name == "" && p.Description == "" && p.Instructions == "") {
		return ""
	}

	name := p.Name
	if name == "" {
		name = "an assistant"
	}
	description := p.Description
	if description == "" {
		description = "an AI assistant"
	}
	var instructions string
	if p.Instructions != "" {
		instructions = "Your instructions: " + p.Instructions + " "
	}
	return fmt.Sprintf(template, name, description, instructions)
}

// ChatbotUpdate carries optional field changes; nil fields are left untouched.
type ChatbotUpdate struct {
	Name         *string
	Description  *string
	Instructions *string
	IsPublic     *bool
}

// Apply copies the set fields onto c.
func (u ChatbotUpdate) Apply(c *Chatbot) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Instructions != nil {
		c.Instructions = *u.Instructions
	}
	if u.IsPublic != nil {
		c.IsPublic = *u.IsPublic
	}
}
