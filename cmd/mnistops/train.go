package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/mnistops/internal/config"
	"github.com/born-ml/mnistops/internal/dataset"
	"github.com/born-ml/mnistops/internal/mnist"
	"github.com/born-ml/mnistops/internal/model"
	"github.com/born-ml/mnistops/internal/report"
	"github.com/born-ml/mnistops/internal/training"
	"github.com/google/uuid"
)

type backend = *autodiff.Backend[*cpu.Backend]

func bindFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory containing MNIST IDX files (raw or .gz)")
	fs.StringVar(&cfg.Mirror, "mirror", cfg.Mirror, "Download mirror (default: "+mnist.DefaultMirror+")")
	fs.BoolVar(&cfg.Download, "download", cfg.Download, "Download missing MNIST files into -data")
	fs.BoolVar(&cfg.Synthetic, "synthetic", cfg.Synthetic, "Use synthetic data (for testing without MNIST files)")
	fs.IntVar(&cfg.SyntheticTrain, "synthetic-train", cfg.SyntheticTrain, "Training samples generated with -synthetic")
	fs.IntVar(&cfg.SyntheticTest, "synthetic-test", cfg.SyntheticTest, "Test samples generated with -synthetic")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for shuffling and overlap resampling")
}

func loadData(ctx context.Context, cfg *config.Config) (*mnist.Data, error) {
	if cfg.Synthetic {
		log.Printf("using synthetic data (%d train, %d test)", cfg.SyntheticTrain, cfg.SyntheticTest)
		return mnist.Synthetic(cfg.SyntheticTrain, cfg.SyntheticTest, cfg.Seed), nil
	}
	if cfg.Download {
		if err := mnist.Download(ctx, cfg.DataDir, cfg.Mirror); err != nil {
			return nil, err
		}
	}
	data, err := mnist.Load(cfg.DataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w\n\nrun with -download to fetch the dataset, or -synthetic to use generated digits", err)
		}
		return nil, err
	}
	return data, nil
}

// runTrain parses args, trains the selected task and prints the epoch table
// to out.
func runTrain(args []string, out io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("train", flag.ExitOnError)
	bindFlags(fs, cfg)
	fs.StringVar(&cfg.Task, "task", cfg.Task, "Task: digits or op")
	fs.StringVar(&cfg.Op, "op", cfg.Op, "Operation for the op task: sum, product, difference or max")
	fs.IntVar(&cfg.Operands, "operands", cfg.Operands, "Number of operand images per example")
	fs.Float64Var(&cfg.Overlap, "overlap", cfg.Overlap, "Overlap resample proportion (0 disables)")
	fs.IntVar(&cfg.CountTrain, "train", cfg.CountTrain, "Number of training examples")
	fs.IntVar(&cfg.CountTest, "test", cfg.CountTest, "Number of test examples")
	fs.IntVar(&cfg.BufferSize, "buffer", cfg.BufferSize, "Shuffle buffer size")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Batch size")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "Number of training epochs")
	fs.IntVar(&cfg.Hidden, "hidden", cfg.Hidden, "Hidden layer width")
	fs.Float64Var(&cfg.LR, "lr", cfg.LR, "Learning rate for Adam optimizer")
	fs.Float64Var(&cfg.LRDecay, "lr-decay", cfg.LRDecay, "Learning rate multiplier applied every -lr-every epochs")
	fs.IntVar(&cfg.LREvery, "lr-every", cfg.LREvery, "Epochs between learning rate decays")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "Write per-epoch metrics to this CSV file")
	fs.StringVar(&cfg.PlotPath, "plot", cfg.PlotPath, "Write a metrics chart to this PNG file")
	fs.StringVar(&cfg.HTMLPath, "html", cfg.HTMLPath, "Write an interactive metrics chart to this HTML file")
	fs.StringVar(&cfg.ModelPath, "save", cfg.ModelPath, "Save trained weights to this .born file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.Operands < 1 {
		return fmt.Errorf("%w: -operands must be at least 1, got %d", dataset.ErrInvalidArgument, cfg.Operands)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	log.Printf("run %s: task=%s epochs=%d batch=%d lr=%g", runID, cfg.Task, cfg.Epochs, cfg.BatchSize, cfg.LR)

	data, err := loadData(ctx, cfg)
	if err != nil {
		return err
	}

	b := autodiff.New(cpu.New())
	dcfg := dataset.Config{
		CountTrain: cfg.CountTrain,
		CountTest:  cfg.CountTest,
		BufferSize: cfg.BufferSize,
		BatchSize:  cfg.BatchSize,
		Seed:       cfg.Seed,
	}

	switch cfg.Task {
	case "digits":
		train, test, err := dataset.MNIST(data, dcfg)
		if err != nil {
			return err
		}
		net := model.NewClassifier(mnist.ImageSize, cfg.Hidden, 10, b)
		trainer := model.NewTrainer[*cpu.Backend, dataset.Example](b, net, float32(cfg.LR), model.EncodeDigits)
		return fit(ctx, cfg, out, runID, "MNIST digits", net, trainer, train, test)

	case "op":
		op, ok := dataset.Ops[cfg.Op]
		if !ok {
			return fmt.Errorf("%w: unknown op %q", dataset.ErrInvalidArgument, cfg.Op)
		}
		train, test, err := dataset.Operation(data, dataset.OpConfig{
			Config:                    dcfg,
			OverlapResampleProportion: cfg.Overlap,
			Operands:                  cfg.Operands,
			Op:                        op,
		})
		if err != nil {
			return err
		}

		lo, hi := dataset.LabelRange(train, test)
		net := model.NewClassifier(cfg.Operands*mnist.ImageSize, cfg.Hidden, hi-lo+1, b)
		trainer := model.NewTrainer[*cpu.Backend, dataset.OpExample](b, net, float32(cfg.LR), model.EncodeOperands(cfg.Operands, lo))
		title := fmt.Sprintf("MNIST %s of %d digits", cfg.Op, cfg.Operands)
		log.Printf("labels span [%d, %d]: %d classes", lo, hi, hi-lo+1)
		return fit(ctx, cfg, out, runID, title, net, trainer, train, test)

	default:
		return fmt.Errorf("%w: unknown task %q", dataset.ErrInvalidArgument, cfg.Task)
	}
}

func fit[T any](
	ctx context.Context,
	cfg *config.Config,
	out io.Writer,
	runID, title string,
	net *model.Classifier[backend],
	trainer *model.Trainer[*cpu.Backend, T],
	train, test *dataset.Dataset[T],
) error {
	log.Printf("%s: %d parameters, %d train batches, %d test batches",
		title, net.NumParameters(), train.NumBatches(), test.NumBatches())

	var schedule training.Schedule
	if cfg.LRDecay != 1 {
		schedule = training.StepDecay(model.ParamLR, cfg.LR, cfg.LRDecay, cfg.LREvery)
	}

	loop := &training.Loop[[]T, []T]{
		Epochs:    cfg.Epochs,
		Metrics:   trainer.Metrics(),
		Train:     train,
		Test:      test,
		TrainStep: trainer.TrainStep,
		TestStep:  trainer.TestStep,
		Schedule:  schedule,
		CSVPath:   cfg.CSVPath,
		Out:       out,
	}

	hist, err := loop.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.PlotPath != "" {
		if err := report.PlotPNG(hist, title, cfg.PlotPath); err != nil {
			return err
		}
		log.Printf("wrote %s", cfg.PlotPath)
	}
	if cfg.HTMLPath != "" {
		if err := writeHTML(hist, title, cfg.HTMLPath); err != nil {
			return err
		}
		log.Printf("wrote %s", cfg.HTMLPath)
	}
	if cfg.ModelPath != "" {
		metadata := map[string]string{
			"run_id":   runID,
			"task":     cfg.Task,
			"op":       cfg.Op,
			"operands": strconv.Itoa(cfg.Operands),
			"classes":  strconv.Itoa(net.Classes()),
		}
		if err := net.Save(cfg.ModelPath, metadata); err != nil {
			return err
		}
		log.Printf("saved model to %s", cfg.ModelPath)
	}
	return nil
}

func writeHTML(hist *training.History, title, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.WriteHTML(hist, title, f)
}
