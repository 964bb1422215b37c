// flakeplow tracks Nix flake project directories and updates them in batch.
package main

import "github.com/flakeplow/flakeplow/cmd"

func main() {
	cmd.Execute()
}
