package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/born-ml/mnistops/internal/config"
	"github.com/born-ml/mnistops/internal/mnist"
)

func runSynth(args []string) error {
	fs := flag.NewFlagSet("synth", flag.ExitOnError)
	out := fs.String("out", "./data", "Output directory")
	train := fs.Int("train", mnist.TrainSize, "Number of training samples")
	test := fs.Int("test", mnist.TestSize, "Number of test samples")
	seed := fs.Uint64("seed", 1, "Noise seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := mnist.Save(*out, mnist.Synthetic(*train, *test, *seed)); err != nil {
		return err
	}
	log.Printf("wrote %d train and %d test samples to %s", *train, *test, *out)
	return nil
}

func runStats(args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	bindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := loadData(context.Background(), cfg)
	if err != nil {
		return err
	}

	for _, s := range []struct {
		name  string
		split *mnist.Split
	}{{"train", data.Train}, {"test", data.Test}} {
		mean, std := mnist.PixelStats(s.split)
		fmt.Printf("%-5s samples=%d mean=%.4f std=%.4f labels=%v\n",
			s.name, s.split.Len(), mean, std, mnist.LabelCounts(s.split))
	}
	return nil
}
