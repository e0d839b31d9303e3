// Command circle-count counts distinct circles in photographs.
package main

func main() {
	Execute()
}
