// Package connectors holds the source fetchers used when training a
// chatbot. Each connector turns an external locator into raw text.
//
// Connectors:
//   - website: same-host breadth-first crawler
package connectors
