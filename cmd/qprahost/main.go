// main.go - entry point for qprahost, the command-line host for qpracore.
package main

func main() {
	Execute()
}
