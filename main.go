package main

import (
	"fmt"
	"os"

	"github.com/madebytinystudio/bank-analyzer/cmd/analyze"
	"github.com/madebytinystudio/bank-analyzer/cmd/categorize"
	"github.com/madebytinystudio/bank-analyzer/cmd/extract"
	"github.com/madebytinystudio/bank-analyzer/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
