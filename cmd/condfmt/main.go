// Command condfmt compiles, inspects and renders condfmt templates.
//
// Configuration is read from, highest priority first:
//  1. Command-line flags (--names, --case-sensitive, ...)
//  2. CONDFMT_* environment variables (CONDFMT_NAMES, CONDFMT_STORE, ...)
//  3. The settings file named by --config or CONDFMT_CONFIG
//
// Examples:
//
//	condfmt render 'Hello %user%{, you have %count% new messages}' -p user=ann -p count=3
//	condfmt inspect --names user,count '{%user%: %count%%!a%}'
//	condfmt check --config condfmt.yaml
//	condfmt put --store templates.db greeting 'Hi %user%'
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
