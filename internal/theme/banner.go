package theme

// Banner returns the CLI banner shown in help output.
func Banner() string {
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	return "" +
		cyan + "  ┌┬┐┬ ┬┬┌┬┐┌┬┐┌─┐┬─┐  ┌┬┐┌─┐┌─┐\n" + reset +
		cyan + "   │ ││││ │  │ ├┤ ├┬┘  │││├┤ ├─┘\n" + reset +
		cyan + "   ┴ └┴┘┴ ┴  ┴ └─┘┴└─  ┴ ┴└─┘┴  \n" + reset +
		yellow + "  ───────────────────────────────\n" + reset +
		"  X tools for agents, over MCP stdio\n"
}
