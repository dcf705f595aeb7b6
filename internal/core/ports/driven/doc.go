// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SiteCrawler: Fetches same-host pages from a website
//   - Normaliser: Extracts text from a raw file
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessor: Splits document text into chunks
//   - EmbeddingService: Turns chunk and question text into vectors
//   - IndexStore: Builds, persists and loads per-chatbot vector indexes
//   - ChatbotStore: Chatbot registry persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer synthesis. Without it every question reports an error answer.
//   - AnswerStore: Question/answer analytics. Without it answers are not recorded.
//   - PromptStore: Customisable prompts. Without it built-in templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
