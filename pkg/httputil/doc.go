// Package httputil provides shared HTTP plumbing for outbound clients:
// retry with exponential backoff and a file-based response cache.
package httputil
