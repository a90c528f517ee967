package main

import "os"

func main() {
	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		os.Exit(1)
	}
}
