// Command resumesmith generates HTML resumes from a professional brief,
// either as a one-shot CLI run or as a long-lived HTTP service.
package main
