// Package services holds cross-cutting service plumbing: the classified error
// taxonomy shared by every generation component and context helpers for
// request correlation.
package services
