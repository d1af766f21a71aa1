// Package openai dispatches resume generation requests to an OpenAI
// Responses-compatible endpoint. The client owns the failure-handling logic:
// outcomes are classified into a closed error taxonomy and transient failures
// are retried with bounded exponential backoff.
package openai
