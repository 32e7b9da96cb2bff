// Command sessionctl inspects and exercises bot sessions stored in Redis.
package main

func main() {
	Execute()
}
