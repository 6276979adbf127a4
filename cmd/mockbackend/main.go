package main

import (
	"context"

	"github.com/dmitrijs2005/sesdash/internal/mockbackend/command"
)

func main() {
	command.Execute(context.Background())
}
