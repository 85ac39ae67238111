// Command vinparser validates and decodes Vehicle Identification Numbers.
package main

func main() {
	Execute()
}
