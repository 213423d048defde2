// Command gallery shows a rotating ring of artworks in the terminal or in a
// desktop window, and can render the ring headlessly to PNG frames.
package main

func main() {
	Execute()
}
