//go:build !linux

package main

import "github.com/spf13/cobra"

// The listen command needs the linux serial source.
func addPlatformCommands(root *cobra.Command, opts *rootOptions) {}
