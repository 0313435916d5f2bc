// Command anvil manages Anvil applications: compiled route files and
// version information.
package main

func main() {
	Execute()
}
