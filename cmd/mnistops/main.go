// Package main provides the mnistops CLI: training Born models on MNIST
// digit and operand tasks.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("mnistops %s\n", version)
		return
	case "train":
		err = runTrain(os.Args[2:], os.Stdout)
	case "synth":
		err = runSynth(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mnistops %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("mnistops - MNIST arithmetic tasks on the Born ML framework")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  train      Train a classifier on MNIST digits or operand datasets")
	fmt.Println("  synth      Write synthetic MNIST IDX files")
	fmt.Println("  stats      Print split sizes, label counts and pixel statistics")
	fmt.Println("  version    Show version")
}
