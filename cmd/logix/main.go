// Command logix is a live viewer for 8-channel logic analyzer captures.
package main

func main() {
	Execute()
}
