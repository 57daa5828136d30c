package main

import (
	"context"
	"fmt"
	"os"

	"github.com/annazecevic/song-service/cmd"
)

func main() {
	if err := cmd.RootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "song-service:", err)
		os.Exit(1)
	}
}
