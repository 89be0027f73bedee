// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package main

import "github.com/avendel/fireguard/cmd"

func main() {
	cmd.Execute()
}
