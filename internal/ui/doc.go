// Package ui is the terminal surface of px: styled output, interactive
// prompts for the operators on set, and a live progress display for
// long conversion batches.
package ui
