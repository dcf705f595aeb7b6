// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML settings in ~/.botly/config.toml
//   - PromptStore: editable prompt templates in ~/.botly/prompts
package file
