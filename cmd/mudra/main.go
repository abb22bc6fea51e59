// Command mudra plays webcam hand-gesture mini-games.
package main

func main() {
	Execute()
}
